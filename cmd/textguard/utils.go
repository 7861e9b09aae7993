package textguard

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/textguard/textguard/internal/config"
	"github.com/textguard/textguard/internal/detectors"
	"github.com/textguard/textguard/internal/engine"
	"github.com/textguard/textguard/internal/report"
	"github.com/textguard/textguard/internal/types"
)

// settings holds the local and global config files; CLI flags are applied on
// top with the pick helpers.
type settings struct {
	local, global config.FileConfig
}

// loadSettings reads both config files. A missing file is fine; a malformed
// one is an error.
func loadSettings(root string) (settings, error) {
	var s settings
	var err error
	if s.global, err = config.LoadGlobal(); err != nil && !errors.Is(err, config.ErrNotFound) {
		return s, err
	}
	if s.local, err = config.LoadLocal(root); err != nil && !errors.Is(err, config.ErrNotFound) {
		return s, err
	}
	return s, nil
}

// newGuard builds a Guard with configured custom patterns and, when asked
// for, the strict validators.
func (s settings) newGuard() (*engine.Guard, error) {
	opts := []engine.Option{engine.WithLogger(log)}
	if pickBool(false, s.local.StrictValidators, s.global.StrictValidators) {
		for t, fn := range detectors.StrictValidators {
			opts = append(opts, engine.WithValidator(t, fn))
		}
	}
	g := engine.New(opts...)
	for _, fc := range []config.FileConfig{s.global, s.local} {
		ps, err := fc.CompilePatterns()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := g.AddPatterns(ps); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return g, nil
}

func (s settings) threatTypes(cli string) ([]types.ThreatType, error) {
	return types.ParseThreatTypes(pickString(cli, s.local.Types, s.global.Types))
}

func (s settings) failOn() (string, error) {
	v := pickString(flagFailOn, s.local.FailOn, s.global.FailOn)
	if v == "" {
		return "medium", nil
	}
	if !report.ValidFailOn(v) {
		return "", fmt.Errorf("invalid fail-on %q (want low|medium|high)", v)
	}
	return v, nil
}

func pickString(cli string, local, global *string) string {
	if cli != "" {
		return cli
	}
	if local != nil && *local != "" {
		return *local
	}
	if global != nil && *global != "" {
		return *global
	}
	return ""
}

func pickInt(cli int, local, global *int) int {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickInt64(cli int64, local, global *int64) int64 {
	if cli != 0 {
		return cli
	}
	if local != nil && *local != 0 {
		return *local
	}
	if global != nil && *global != 0 {
		return *global
	}
	return 0
}

func pickBool(cli bool, local, global *bool) bool {
	if cli {
		return true
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return false
}

// pickChanged is pickBool for flags whose default is true: the flag wins only
// when set explicitly.
func pickChanged(cmd *cobra.Command, name string, cli bool, local, global *bool) bool {
	if cmd.Flags().Changed(name) {
		return cli
	}
	if local != nil {
		return *local
	}
	if global != nil {
		return *global
	}
	return cli
}
