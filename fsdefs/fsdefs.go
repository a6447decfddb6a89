// Package fsdefs loads user-authored skill and agent definitions from YAML
// files on disk. Definitions are per-device data: the surrounding service
// loads them at connect time and passes them along in the task payload.
package fsdefs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

const maxDefBytes = 1 << 20 // 1 MiB

type Loader struct {
	logger *slog.Logger
}

type Option func(*Loader)

func WithLogger(l *slog.Logger) Option {
	return func(ld *Loader) { ld.logger = l }
}

func New(opts ...Option) *Loader {
	ld := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// LoadSkillDir reads every .yaml/.yml file in dir as one skill definition,
// sorted by file name. Definitions missing a system prompt fail the load;
// unusable embedded model configs are dropped with a warning so the skill
// still runs against the fallback model chain.
func (ld *Loader) LoadSkillDir(ctx context.Context, dir string) ([]spec.SkillDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(dir) == "" {
		return nil, errors.Join(spec.ErrInvalidArgument, errors.New("empty skill dir"))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read skill dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var defs []spec.SkillDefinition
	seen := map[string]string{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		def, err := ld.loadSkillFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, dup := seen[def.ID]; dup {
			return nil, errors.Join(spec.ErrInvalidDefinition,
				fmt.Errorf("%s: duplicate skill id %q (also in %s)", name, def.ID, prev))
		}
		seen[def.ID] = name
		defs = append(defs, def)
	}
	return defs, nil
}

func (ld *Loader) loadSkillFile(path string) (spec.SkillDefinition, error) {
	data, err := readRegularLimited(path)
	if err != nil {
		return spec.SkillDefinition{}, err
	}

	var def spec.SkillDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return spec.SkillDefinition{}, errors.Join(spec.ErrInvalidDefinition, err)
	}

	if strings.TrimSpace(def.ID) == "" {
		base := filepath.Base(path)
		def.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if !strings.HasPrefix(def.ID, spec.UserSkillIDPrefix) {
		def.ID = spec.UserSkillIDPrefix + def.ID
	}
	if strings.TrimSpace(def.Name) == "" {
		def.Name = strings.TrimPrefix(def.ID, spec.UserSkillIDPrefix)
	}
	if strings.TrimSpace(def.SystemPrompt) == "" {
		return spec.SkillDefinition{}, errors.Join(spec.ErrInvalidDefinition,
			errors.New("skill missing system_prompt"))
	}

	def.Model = ld.checkedModel(def.Model, "skill", def.ID)
	if err := ld.validateSubSkills(def.ID, def.SubSkills); err != nil {
		return spec.SkillDefinition{}, err
	}
	return def, nil
}

func (ld *Loader) validateSubSkills(owner string, subs []spec.SubSkillDefinition) error {
	for i := range subs {
		if strings.TrimSpace(subs[i].SystemPrompt) == "" {
			return errors.Join(spec.ErrInvalidDefinition,
				fmt.Errorf("skill %s: sub-skill %d missing system_prompt", owner, i))
		}
		subs[i].Model = ld.checkedModel(subs[i].Model, "sub-skill", owner)
		if err := ld.validateSubSkills(owner, subs[i].SubSkills); err != nil {
			return err
		}
	}
	return nil
}

// agentsDoc is the on-disk shape of the agents file.
type agentsDoc struct {
	Agents []spec.AgentPersona `yaml:"agents"`
}

// LoadAgentsFile reads the persona list. Personas need a name and a system
// prompt; ids default to the name.
func (ld *Loader) LoadAgentsFile(ctx context.Context, path string) ([]spec.AgentPersona, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readRegularLimited(path)
	if err != nil {
		return nil, err
	}

	var doc agentsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(spec.ErrInvalidDefinition, err)
	}

	seen := map[string]struct{}{}
	for i := range doc.Agents {
		agent := &doc.Agents[i]
		if strings.TrimSpace(agent.Name) == "" {
			return nil, errors.Join(spec.ErrInvalidDefinition,
				fmt.Errorf("agent %d missing name", i))
		}
		if strings.TrimSpace(agent.SystemPrompt) == "" {
			return nil, errors.Join(spec.ErrInvalidDefinition,
				fmt.Errorf("agent %q missing system_prompt", agent.Name))
		}
		if strings.TrimSpace(agent.ID) == "" {
			agent.ID = agent.Name
		}
		if _, dup := seen[agent.ID]; dup {
			return nil, errors.Join(spec.ErrInvalidDefinition,
				fmt.Errorf("duplicate agent id %q", agent.ID))
		}
		seen[agent.ID] = struct{}{}
		agent.Model = ld.checkedModel(agent.Model, "agent", agent.ID)
	}
	return doc.Agents, nil
}

// checkedModel drops a present-but-incomplete model config so downstream
// resolution falls through to the next tier.
func (ld *Loader) checkedModel(m *spec.ModelConfig, kind, owner string) *spec.ModelConfig {
	if m == nil || m.Usable() {
		return m
	}
	ld.logger.Warn("dropping incomplete model config", "kind", kind, "owner", owner)
	return nil
}

func readRegularLimited(path string) ([]byte, error) {
	lst, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if lst.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("%s must not be a symlink", filepath.Base(path))
	}
	if !lst.Mode().IsRegular() {
		return nil, fmt.Errorf("%s must be a regular file", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(maxDefBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > maxDefBytes {
		return nil, fmt.Errorf("%s too large (max %d bytes)", filepath.Base(path), maxDefBytes)
	}
	return data, nil
}
