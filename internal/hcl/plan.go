// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package hcl

import (
	"sync"

	"github.com/Azure/golden"
)

// RunSweepPlan evaluates the configuration and collects the sweep blocks.
func RunSweepPlan(c *SweepConfig) (*SweepPlan, error) {
	err := c.RunPlan()
	if err != nil {
		return nil, err
	}

	plan := newPlan(c)
	for _, rb := range golden.Blocks[*SweepBlock](c) {
		plan.addSweep(rb)
	}

	return plan, nil
}

func newPlan(c *SweepConfig) *SweepPlan {
	return &SweepPlan{
		c: c,
	}
}

// SweepPlan holds the evaluated sweep blocks of a configuration directory.
type SweepPlan struct {
	Sweeps []*SweepBlock
	c      *SweepConfig
	mu     sync.Mutex
}

func (p *SweepPlan) addSweep(b *SweepBlock) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Sweeps = append(p.Sweeps, b)
}
