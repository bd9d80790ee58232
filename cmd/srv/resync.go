package main

import (
	"log"

	"github.com/urfave/cli/v2"
)

func (s *srv) startResync(*cli.Context) error {
	s.loadDatabase()
	s.loadRepos()
	s.loadDomains()

	n, err := s.pointDomain.ResyncAll(s.ctx)
	if err != nil {
		return err
	}

	log.Printf("Resynced %d users\n", n)
	return nil
}
