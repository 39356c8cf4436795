package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsAllowed(t *testing.T) {
	testCases := []struct {
		description string
		policy      *Policy
		engine      string
		expect      bool
	}{
		{
			description: "nil policy admits",
			engine:      "jnml",
			expect:      true,
		},
		{
			description: "empty lists admit",
			policy:      &Policy{Mode: ModeAuto},
			engine:      "jnml",
			expect:      true,
		},
		{
			description: "block list wins over allow list",
			policy:      &Policy{AllowList: []string{"neuron"}, BlockList: []string{"NEURON"}},
			engine:      "neuron",
			expect:      false,
		},
		{
			description: "allow list filters",
			policy:      &Policy{AllowList: []string{"jnml", "eden"}},
			engine:      "neuron",
			expect:      false,
		},
		{
			description: "allow list is case insensitive",
			policy:      &Policy{AllowList: []string{"JNML"}},
			engine:      "jnml",
			expect:      true,
		},
	}
	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, testCase.policy.IsAllowed(testCase.engine), testCase.description)
	}
}

func TestConfig_roundTrip(t *testing.T) {
	original := &Policy{Mode: ModeAsk, AllowList: []string{"jnml"}, BlockList: []string{"neuron"}}
	restored := FromConfig(ToConfig(original))
	assert.EqualValues(t, original.Mode, restored.Mode)
	assert.EqualValues(t, original.AllowList, restored.AllowList)
	assert.EqualValues(t, original.BlockList, restored.BlockList)
	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	p := &Policy{Mode: ModeDeny}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
}
