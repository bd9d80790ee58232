package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/urfave/cli/v2"
)

func (s *srv) printConfig(*cli.Context) error {
	cfg := s.configs
	cfg.Database.Password = "***"
	cfg.Auth.TokenSecret = "***"

	return toml.NewEncoder(os.Stdout).Encode(cfg)
}
