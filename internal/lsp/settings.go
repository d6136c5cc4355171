package lsp

import (
	"encoding/json"

	"go.lsp.dev/protocol"

	"bslcheck/internal/config"
	"bslcheck/internal/project"
)

// settingsSection is the key clients usually nest our settings under.
const settingsSection = "bslcheck"

func (s *Server) didChangeConfiguration(params *protocol.DidChangeConfigurationParams) {
	if params.Settings == nil {
		return
	}
	if s.applySettings(params.Settings) {
		s.scheduleAll()
	}
}

// applySettings decodes client settings into the store. Битые настройки
// логируются, текущие остаются в силе.
func (s *Server) applySettings(raw interface{}) bool {
	data, err := json.Marshal(raw)
	if err != nil {
		s.logger.Warn("settings are not JSON", "err", err)
		return false
	}
	var wrapped map[string]json.RawMessage
	if json.Unmarshal(data, &wrapped) == nil {
		if inner, ok := wrapped[settingsSection]; ok {
			data = inner
		}
	}
	next, err := config.DecodeJSON(data)
	if err != nil {
		s.logger.Warn("invalid settings, keeping previous", "err", err)
		return false
	}
	s.settings.Set(next)
	s.mu.Lock()
	s.explicitSettings = true
	s.mu.Unlock()
	s.logger.Info("settings updated", "mode", next.Mode, "minimumLevel", next.MinimumLevel)
	return true
}

// loadProjectSettings reads bslcheck.toml found from root upwards.
func (s *Server) loadProjectSettings(root string) {
	s.mu.Lock()
	explicit := s.explicitSettings
	s.mu.Unlock()
	if explicit {
		return
	}
	path, ok, err := project.FindConfig(root)
	if err != nil {
		s.logger.Warn("config lookup failed", "root", root, "err", err)
		return
	}
	if !ok {
		return
	}
	next, err := config.LoadFile(path)
	if err != nil {
		s.logger.Warn("invalid config file", "path", path, "err", err)
		return
	}
	s.settings.Set(next)
	s.logger.Info("settings loaded", "path", path)
}
