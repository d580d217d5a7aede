package lfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// Mode selects how the tracker is chosen.
type Mode string

const (
	ModeAuto       Mode = "auto"
	ModeAttributes Mode = "attributes"
	ModeCLI        Mode = "cli"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeAttributes, ModeCLI:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown lfs mode %q (want auto, attributes, cli)", s)
	}
}

// Prober detects which tracking strategy the host supports.
type Prober struct {
	// ConfigFiles lists the git config files consulted for the lfs filter
	// driver. Missing files are ignored.
	ConfigFiles func(root string) []string
	// Run executes commands; it defaults to os/exec.
	Run RunFunc
}

// Probe picks a tracker for the repository at root using the default prober.
func Probe(ctx context.Context, root string, mode Mode) (Tracker, error) {
	return Prober{}.Probe(ctx, root, mode)
}

// Probe picks a tracker for mode. auto prefers the in-process tracker when
// the lfs filter driver is configured, then the git-lfs command.
func (p Prober) Probe(ctx context.Context, root string, mode Mode) (Tracker, error) {
	switch mode {
	case ModeAttributes:
		if ok, err := p.FilterConfigured(root); err != nil || !ok {
			return nil, p.unavailable("lfs filter driver is not configured (run git lfs install)", err)
		}
		return AttributesTracker{}, nil
	case ModeCLI:
		if err := p.cliAvailable(ctx, root); err != nil {
			return nil, p.unavailable("git lfs command failed", err)
		}
		return CLITracker{Run: p.Run}, nil
	case ModeAuto, "":
		ok, cfgErr := p.FilterConfigured(root)
		if ok {
			return AttributesTracker{}, nil
		}
		if err := p.cliAvailable(ctx, root); err == nil {
			return CLITracker{Run: p.Run}, nil
		} else if cfgErr == nil {
			cfgErr = err
		}
		return nil, p.unavailable("neither the lfs filter driver nor the git lfs command is usable", cfgErr)
	default:
		return nil, fmt.Errorf("unknown lfs mode %q", string(mode))
	}
}

func (p Prober) unavailable(reason string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, reason, cause)
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, reason)
}

// FilterConfigured reports whether any git config file defines
// [filter "lfs"] with a clean or process command.
func (p Prober) FilterConfigured(root string) (bool, error) {
	files := p.configFiles(root)
	if len(files) == 0 {
		return false, nil
	}
	sources := make([]any, len(files))
	for i, f := range files {
		sources[i] = f
	}
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
		AllowShadows:            true,
	}, sources[0], sources[1:]...)
	if err != nil {
		return false, fmt.Errorf("reading git config: %w", err)
	}
	sec, err := cfg.GetSection(`filter "lfs"`)
	if err != nil {
		return false, nil
	}
	for _, key := range []string{"process", "clean"} {
		if sec.HasKey(key) && strings.TrimSpace(sec.Key(key).String()) != "" {
			return true, nil
		}
	}
	return false, nil
}

func (p Prober) configFiles(root string) []string {
	if p.ConfigFiles != nil {
		return p.ConfigFiles(root)
	}
	return GitConfigFiles(root)
}

func (p Prober) cliAvailable(ctx context.Context, root string) error {
	run := p.Run
	if run == nil {
		run = execRun
	}
	out, err := run(ctx, root, "git", "lfs", "version")
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// GitConfigFiles returns the config files git reads for a repository, from
// system to local scope, honoring GIT_CONFIG_NOSYSTEM, GIT_CONFIG_GLOBAL and
// XDG_CONFIG_HOME.
func GitConfigFiles(root string) []string {
	var files []string
	if os.Getenv("GIT_CONFIG_NOSYSTEM") == "" {
		files = append(files, "/etc/gitconfig")
	}
	if global := os.Getenv("GIT_CONFIG_GLOBAL"); global != "" {
		files = append(files, global)
	} else {
		home, _ := os.UserHomeDir()
		xdg := os.Getenv("XDG_CONFIG_HOME")
		if xdg == "" && home != "" {
			xdg = filepath.Join(home, ".config")
		}
		if xdg != "" {
			files = append(files, filepath.Join(xdg, "git", "config"))
		}
		if home != "" {
			files = append(files, filepath.Join(home, ".gitconfig"))
		}
	}
	return append(files, filepath.Join(root, ".git", "config"))
}
