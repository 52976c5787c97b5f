package main

import (
	"context"
	"sync"

	"pantry-chef/internal/api"
	"pantry-chef/internal/infrastructure/config"
)

type commandContext struct {
	configOnce sync.Once
	config     *config.Config
	configErr  error

	servicesOnce sync.Once
	services     *api.Services
	servicesErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = config.LoadConfig()
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureServices(ctx context.Context) (*api.Services, error) {
	c.servicesOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.servicesErr = err
			return
		}
		c.services, c.servicesErr = api.NewServices(ctx, cfg)
	})
	return c.services, c.servicesErr
}

func (c *commandContext) close() error {
	if c.services == nil {
		return nil
	}
	return c.services.Close()
}
