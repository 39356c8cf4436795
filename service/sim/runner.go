package sim

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/neuroml/gonml/internal/clock"
	"github.com/neuroml/gonml/internal/idgen"
	"github.com/neuroml/gonml/model/run"
	"github.com/neuroml/gonml/policy"
	"github.com/neuroml/gonml/service/meta"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"
)

const defaultTimeout = 10 * time.Minute

// Host identifies where a simulation runs; an empty or localhost URL keeps
// execution local, anything else opens an SSH session using the named
// credentials.
type Host struct {
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
}

// Init applies the local default.
func (h *Host) Init() {
	if h.URL == "" {
		h.URL = "bash://localhost/"
	}
}

// IsLocal reports whether the host is the local machine.
func (h *Host) IsLocal() bool {
	return url.Host(h.URL) == "localhost"
}

// Runner launches simulator commands through shell sessions, one per host.
type Runner struct {
	catalog  *Catalog
	meta     *meta.Service
	sessions map[string]*gosh.Service
	mux      sync.Mutex
}

// NewRunner creates a runner over the supplied catalog.
func NewRunner(catalog *Catalog, metaService *meta.Service) *Runner {
	return &Runner{
		catalog:  catalog,
		meta:     metaService,
		sessions: make(map[string]*gosh.Service),
	}
}

// Request describes a single simulator launch.
type Request struct {
	SourceURL string            `json:"sourceURL"`
	Engine    string            `json:"engine"`
	Args      []string          `json:"args,omitempty"`
	Host      *Host             `json:"host,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	TimeoutMs int               `json:"timeoutMs,omitempty"`
}

// Init applies defaults.
func (r *Request) Init() {
	if r.Host == nil {
		r.Host = &Host{}
	}
	r.Host.Init()
	if r.Engine == "" {
		r.Engine = "jnml"
	}
}

// Validate checks the request is complete.
func (r *Request) Validate() error {
	if r.SourceURL == "" {
		return fmt.Errorf("sourceURL was empty")
	}
	return nil
}

// Run launches a single simulation and returns its run record. Launches are
// gated by the policy attached to the context; a denied launch yields a
// record in the denied state rather than an error.
func (r *Runner) Run(ctx context.Context, request *Request) (*run.Run, error) {
	request.Init()
	if err := request.Validate(); err != nil {
		return nil, err
	}
	engine, err := r.catalog.Engine(request.Engine)
	if err != nil {
		return nil, err
	}

	record := &run.Run{
		ID:        idgen.New(),
		Engine:    engine.ID,
		SourceURL: request.SourceURL,
		Host:      request.Host.URL,
		State:     run.StatePending,
		CreatedAt: clock.Now(),
	}
	baseURL, _ := url.Split(request.SourceURL, file.Scheme)
	workDir := url.Path(baseURL)
	record.WorkDir = workDir
	record.Command = engine.Expand(request.SourceURL, workDir, request.Args)

	if !r.approved(ctx, engine.ID, record.Command) {
		record.State = run.StateDenied
		return record, nil
	}

	session, err := r.session(ctx, request.Host, request.Env)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(request.TimeoutMs) * time.Millisecond
	if timeout == 0 {
		if engine.TimeoutMs > 0 {
			timeout = time.Duration(engine.TimeoutMs) * time.Millisecond
		} else {
			timeout = defaultTimeout
		}
	}

	record.Start(clock.Now())
	if workDir != "" {
		if _, _, err = session.Run(ctx, "cd "+workDir); err != nil {
			record.Fail(clock.Now(), fmt.Errorf("failed to change directory: %w", err))
			return record, nil
		}
	}
	stdout, status, err := session.Run(ctx, record.Command, runner.WithTimeout(int(timeout.Milliseconds())))
	record.Stdout = stdout
	if err != nil {
		record.Fail(clock.Now(), err)
		return record, nil
	}
	record.Complete(clock.Now(), status)
	if record.State == run.StateCompleted {
		record.Outputs = r.collectOutputs(ctx, request.SourceURL)
	}
	return record, nil
}

// approved consults the context policy for the engine launch.
func (r *Runner) approved(ctx context.Context, engine, command string) bool {
	p := policy.FromContext(ctx)
	if p == nil {
		return true
	}
	if !p.IsAllowed(engine) {
		return false
	}
	switch p.Mode {
	case policy.ModeDeny:
		return false
	case policy.ModeAsk:
		if p.Ask == nil {
			return false
		}
		return p.Ask(ctx, engine, map[string]interface{}{"command": command}, p)
	}
	return true
}

// collectOutputs lists the simulation data files declared by the LEMS file
// that exist next to it after the run.
func (r *Runner) collectOutputs(ctx context.Context, sourceURL string) []string {
	lemsFile, err := r.meta.LoadLEMS(ctx, sourceURL)
	if err != nil {
		return nil
	}
	baseURL, _ := url.Split(sourceURL, file.Scheme)
	var outputs []string
	appendExisting := func(name string) {
		if name == "" {
			return
		}
		location := url.Join(baseURL, name)
		if ok, _ := r.meta.Exists(ctx, location); ok {
			outputs = append(outputs, location)
		}
	}
	for _, simulation := range lemsFile.Simulations {
		for _, outputFile := range simulation.OutputFiles {
			appendExisting(outputFile.FileName)
		}
		for _, eventFile := range simulation.EventOutputFiles {
			appendExisting(eventFile.FileName)
		}
	}
	return outputs
}

// session returns a cached shell session for the host, creating one on
// first use.
func (r *Runner) session(ctx context.Context, host *Host, env map[string]string) (*gosh.Service, error) {
	r.mux.Lock()
	defer r.mux.Unlock()
	if session, ok := r.sessions[host.URL]; ok {
		return session, nil
	}

	var envOptions []runner.Option
	if len(env) > 0 {
		envOptions = append(envOptions, runner.WithEnvironment(env))
	}

	var session *gosh.Service
	var err error
	if host.IsLocal() {
		session, err = gosh.New(ctx, local.New(envOptions...))
	} else {
		config, cfgErr := r.sshConfig(ctx, host)
		if cfgErr != nil {
			return nil, fmt.Errorf("failed to get SSH config: %w", cfgErr)
		}
		sshHost := url.Host(host.URL)
		if !strings.Contains(sshHost, ":") {
			sshHost += ":22"
		}
		session, err = gosh.New(ctx, rssh.New(sshHost, config, envOptions...))
	}
	if err != nil {
		return nil, err
	}
	r.sessions[host.URL] = session
	return session, nil
}

func (r *Runner) sshConfig(ctx context.Context, host *Host) (*ssh.ClientConfig, error) {
	credentials := host.Credentials
	if credentials == "" {
		credentials = "localhost"
	}
	secrets := secret.New()
	generic, err := secrets.GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}

// Close releases all shell sessions held by the runner.
func (r *Runner) Close() error {
	r.mux.Lock()
	defer r.mux.Unlock()
	var errs []string
	for id, session := range r.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to close session %s: %v", id, err))
		}
	}
	r.sessions = make(map[string]*gosh.Service)
	if len(errs) > 0 {
		return fmt.Errorf("errors closing sessions: %s", strings.Join(errs, "; "))
	}
	return nil
}
