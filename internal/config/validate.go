// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package config

import (
	"fmt"

	"github.com/tomtom215/basketlens/internal/segment"
	"github.com/tomtom215/basketlens/internal/validation"
)

// Validate checks struct tags first, then the cross-field rules each
// component enforces on its own configuration.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.SegmentConfig().Validate(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if _, err := segment.NewTierClassifier(c.Tiers); err != nil {
		return fmt.Errorf("tiers: %w", err)
	}

	return c.validateAPI()
}

func (c *Config) validateRecommend() error {
	if err := c.RecommendConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size (%d) must not exceed api.max_page_size (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	if !c.API.RateLimitDisabled && c.API.RateLimitReqs > 0 && c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive when rate limiting is enabled")
	}
	return nil
}
