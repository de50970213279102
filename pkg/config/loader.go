package config

import (
	"fmt"
	"os"

	"github.com/consultape/consulta-gateway/envloader"
	"gopkg.in/yaml.v3"
)

// Load monta a configuração do serviço. Primeiro aplica defaults e variáveis
// de ambiente (deploy container-only, como o original); depois, se um arquivo
// YAML for informado, ele tem precedência sobre o ambiente.
func Load(path string) (*ServiceConfig, error) {
	cfg := &ServiceConfig{}

	if err := envloader.Load(cfg); err != nil {
		return nil, fmt.Errorf("erro ao carregar variáveis de ambiente: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("erro ao interpretar YAML %s: %w", path, err)
		}
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
