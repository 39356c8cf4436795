package gonml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/neuroml/gonml/policy"
	"github.com/neuroml/gonml/service/convert"
	"github.com/stretchr/testify/assert"
)

const sampleSWC = `# simple cell
1 1 0.0 0.0 0.0 5.0 -1
2 3 0.0 5.0 0.0 1.0 1
3 3 0.0 10.0 0.0 1.0 2
`

func TestService_Invoke(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "sample.swc")
	if !assert.Nil(t, os.WriteFile(source, []byte(sampleSWC), 0644)) {
		return
	}
	srv, err := New()
	if !assert.Nil(t, err) {
		return
	}
	ctx := context.Background()

	out, err := srv.Invoke(ctx, "convert.swc2nml", map[string]interface{}{
		"sourceURL": source,
	})
	if !assert.Nil(t, err) {
		return
	}
	output, ok := out.(*convert.Output)
	if !assert.True(t, ok) {
		return
	}
	assert.EqualValues(t, "sample", output.CellID)
	assert.True(t, output.Segments > 1)
	assert.NotEmpty(t, output.Data)

	_, err = srv.Invoke(ctx, "convert", nil)
	assert.NotNil(t, err)
	_, err = srv.Invoke(ctx, "convert.bogus", nil)
	assert.NotNil(t, err)
	_, err = srv.Invoke(ctx, "nosuch.method", nil)
	assert.NotNil(t, err)
}

func TestRuntime(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "sample.swc")
	if !assert.Nil(t, os.WriteFile(source, []byte(sampleSWC), 0644)) {
		return
	}
	srv, err := New(WithMetaBaseURL(tempDir))
	if !assert.Nil(t, err) {
		return
	}
	runtime := srv.Runtime()
	defer runtime.Close()
	ctx := context.Background()

	converted, err := runtime.ConvertSWC(ctx, &convert.Input{SourceURL: source})
	if !assert.Nil(t, err) {
		return
	}
	assert.EqualValues(t, "sample", converted.CellID)

	engines, err := runtime.Engines(ctx)
	if !assert.Nil(t, err) {
		return
	}
	ids := make([]string, 0, len(engines))
	for _, engine := range engines {
		ids = append(ids, engine.ID)
	}
	assert.Contains(t, ids, "jnml")
	assert.Contains(t, ids, "eden")
}

func TestService_NewContext(t *testing.T) {
	srv, err := New(WithPolicy(&policy.Config{Mode: policy.ModeDeny}))
	if !assert.Nil(t, err) {
		return
	}
	ctx := srv.NewContext(context.Background())
	attached := policy.FromContext(ctx)
	if !assert.NotNil(t, attached) {
		return
	}
	assert.EqualValues(t, policy.ModeDeny, attached.Mode)

	plain, err := New()
	if !assert.Nil(t, err) {
		return
	}
	assert.Nil(t, policy.FromContext(plain.NewContext(context.Background())))
}

func TestConfig_Validate(t *testing.T) {
	assert.Nil(t, DefaultConfig().Validate())
	invalid := &Config{}
	assert.NotNil(t, invalid.Validate())
}
