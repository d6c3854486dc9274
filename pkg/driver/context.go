// Package driver wires every internal package into the end-to-end
// pipeline spec.md §6 describes as the external interface: read a set
// of translation units, generate and link and solve constraints over
// them, plan rewrites, and write output according to the file-write
// policy. Structured as a small ordered sequence of stages run over a
// shared context, continuing past a stage's errors so later stages
// can still report what they can.
package driver

import (
	"github.com/google/uuid"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/config"
	"github.com/ccqual/ccqual/internal/diagnostics"
	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/solver"
)

// Options mirrors the CLI flags of spec.md §6.
type Options struct {
	BaseDir        string
	OutputPostfix  string
	Verbose        bool
	DumpIntermediate bool
	DumpStats      bool
	CachePath      string
	AllowList      map[string]bool
}

// Context carries state across pipeline stages. RunID is a fresh
// uuid per invocation; no stage and no output reads it.
type Context struct {
	Opts Options
	Log  *diagnostics.Logger
	RunID string

	Files map[string]string // canonical path -> source text, as read from disk
	TUs   []*cast.TranslationUnit

	Info *proginfo.ProgramInfo

	Solved solver.Result

	Errors []error
}

func NewContext(opts Options, log *diagnostics.Logger) *Context {
	return &Context{
		Opts:  opts,
		Log:   log,
		RunID: uuid.NewString(),
		Files: make(map[string]string),
		Info:  proginfo.New(),
	}
}

func (c *Context) addError(err error) {
	if err != nil {
		c.Errors = append(c.Errors, err)
	}
}

// DefaultAllowList merges config.AllowListedExterns with any project
// config extras, for callers that did not already resolve one.
func DefaultAllowList(pc *config.ProjectConfig) map[string]bool {
	if pc == nil {
		return config.AllowListedExterns
	}
	return pc.MergedAllowList()
}
