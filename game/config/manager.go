package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/warehouse/game/engine"
	"github.com/wricardo/mcp-training/warehouse/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// DefaultConfigName is the puzzle preferred as the default when present
const DefaultConfigName = "starter"

// puzzle file extensions in lookup order
var extensions = []string{".json", ".txt"}

// Manager handles puzzle configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.PuzzleConfig
	configs       map[string]*engine.PuzzleConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.PuzzleConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a configuration by name. The name may carry a .json or
// .txt extension; without one both are tried in that order.
//
// Configs are cached under the name as given. With an extension that is the
// filename, so "easy.json" and "easy.txt" never share an entry. A bare name
// holds whichever file the lookup order resolved.
func (m *Manager) LoadConfig(name string) (*engine.PuzzleConfig, error) {
	key := name

	m.mu.RLock()
	if config, exists := m.configs[key]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[key]; exists {
		return config, nil
	}

	configPath, data, err := m.readConfigFile(name)
	if err != nil {
		return nil, err
	}

	config, err := engine.DecodePuzzleConfig(configPath, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[key] = config
	return config, nil
}

func (m *Manager) readConfigFile(name string) (string, []byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", nil, ErrConfigNotFound
	}

	candidates := []string{name}
	if !hasKnownExtension(name) {
		candidates = candidates[:0]
		for _, ext := range extensions {
			candidates = append(candidates, name+ext)
		}
	}

	for _, filename := range candidates {
		configPath := filepath.Join(m.configDir, filename)
		data, err := os.ReadFile(configPath)
		if err == nil {
			return configPath, data, nil
		}
		if !os.IsNotExist(err) {
			return "", nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return "", nil, ErrConfigNotFound
}

// ListConfigs returns information about all available configurations
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !hasKnownExtension(entry.Name()) {
			continue
		}

		id := configID(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping invalid puzzle config")
			continue
		}
		seen[id] = true

		grid, err := engine.ParseBoardRows(config.Layout)
		if err != nil {
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:    entry.Name(),
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			Width:       grid.Width(),
			Height:      grid.Height(),
			Boxes:       grid.Count(engine.Box),
			ScriptMoves: len(engine.ParseMoves(config.Moves)),
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.PuzzleConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops all cached configurations and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.PuzzleConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig(DefaultConfigName)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			log.Debug().Str("dir", m.configDir).Msg("no puzzle configs found, using built-in starter")
			config = engine.DefaultPuzzleConfig()
		} else if config, err = m.LoadConfig(configs[0].Filename); err != nil {
			config = engine.DefaultPuzzleConfig()
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig saves a configuration to disk as JSON
func (m *Manager) SaveConfig(name string, config *engine.PuzzleConfig) error {
	if err := engine.ValidatePuzzleConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	id := configID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: invalid config name %q", ErrInvalidConfig, name)
	}

	configPath := filepath.Join(m.configDir, id+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.dropCached(id)
	m.configs[id] = config
	m.configs[id+".json"] = config
	m.mu.Unlock()

	log.Info().Str("config", id).Str("path", configPath).Msg("saved puzzle config")
	return nil
}

func hasKnownExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// configID strips a known extension, giving the id shown in listings
func configID(name string) string {
	if hasKnownExtension(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}

// dropCached removes every cache entry that may hold the puzzle with the
// given id. Callers hold m.mu.
func (m *Manager) dropCached(id string) {
	delete(m.configs, id)
	for _, ext := range extensions {
		delete(m.configs, id+ext)
	}
}

// ReloadConfig drops a cached configuration and reads it again from disk
func (m *Manager) ReloadConfig(name string) error {
	m.mu.Lock()
	m.dropCached(configID(name))
	m.mu.Unlock()

	_, err := m.LoadConfig(name)
	return err
}
