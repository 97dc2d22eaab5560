// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package hcl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Azure/golden"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/spf13/afero"
)

const (
	sweepConfigFileExt = ".sweep.hcl"
)

var _ golden.Config = &SweepConfig{}

var (
	// ErrInitConfig is returned when the sweep configuration cannot be initialized.
	ErrInitConfig = errors.New("failed to initialize sweep configuration")
	// ErrNoSweepConfigFile is returned when no `.sweep.hcl` file is found in the specified directory.
	ErrNoSweepConfigFile = errors.New("no `.sweep.hcl` file found in the specified directory")
	// ErrParseSweepConfigFile is returned when there is an error parsing the `.sweep.hcl` file.
	ErrParseSweepConfigFile = errors.New("failed to parse blocks in the configuration file")
)

// SweepConfig represents the HCL configuration for the sweep system.
type SweepConfig struct {
	*golden.BaseConfig
}

// ErrInvalidBlockType represents an error for an invalid block type in the sweep configuration.
type ErrInvalidBlockType struct {
	BlockType string
	Range     hcl.Range
}

// NewErrInvalidBlockType creates a new ErrInvalidBlockType with the specified block type and range.
func NewErrInvalidBlockType(blockType string, r hcl.Range) *ErrInvalidBlockType {
	return &ErrInvalidBlockType{
		BlockType: blockType,
		Range:     r,
	}
}

// Error implements the error interface for ErrInvalidBlockType.
func (e *ErrInvalidBlockType) Error() string {
	return fmt.Sprintf("invalid block type: %s at %s", e.BlockType, e.Range.String())
}

// NewSweepConfig creates a new SweepConfig instance with the provided base directory,
// CLI flag assigned variables, context, and HCL blocks.
func NewSweepConfig(
	ctx context.Context,
	baseDir string,
	cliFlagAssignedVariables []golden.CliFlagAssignedVariables,
	hclBlocks []*golden.HclBlock,
) (*SweepConfig, error) {
	cfg := &SweepConfig{
		BaseConfig: golden.NewBasicConfig(baseDir, "sweep", "sweep", nil, cliFlagAssignedVariables, ctx),
	}

	err := golden.InitConfig(cfg, hclBlocks)

	if err != nil {
		err = errors.Join(ErrInitConfig, err)
	}

	return cfg, err
}

// BuildSweepConfig constructs a SweepConfig instance by loading HCL blocks
// from the specified configuration directory.
func BuildSweepConfig(
	ctx context.Context,
	baseDir, cfgDir string,
	cliFlagAssignedVariables []golden.CliFlagAssignedVariables,
) (*SweepConfig, error) {
	var err error

	hclBlocks, err := loadSweepHclBlocks(false, cfgDir)
	if err != nil {
		return nil, err
	}

	c, err := NewSweepConfig(ctx, baseDir, cliFlagAssignedVariables, hclBlocks)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func loadSweepHclBlocks(ignoreUnsupportedBlock bool, dir string) ([]*golden.HclBlock, error) {
	fs := FsFactory()

	matches, err := afero.Glob(fs, filepath.Join(dir, "*"+sweepConfigFileExt))
	if err != nil {
		// the only error we expect here is ErrBadPattern, which should never happen as it is a constant.
		panic(err)
	}

	if len(matches) == 0 {
		return nil, ErrNoSweepConfigFile
	}

	var blocks []*golden.HclBlock

	for _, filename := range matches {
		content, fsErr := afero.ReadFile(fs, filename)
		if fsErr != nil {
			err = multierror.Append(err, fsErr)
			continue
		}

		readFile, diag := hclsyntax.ParseConfig(content, filename, hcl.InitialPos)
		if diag.HasErrors() {
			err = multierror.Append(err, diag.Errs()...)
			continue
		}

		writeFile, _ := hclwrite.ParseConfig(content, filename, hcl.InitialPos)
		readBody := readFile.Body.(*hclsyntax.Body)
		writeBody := writeFile.Body()
		blocks = append(blocks, golden.AsHclBlocks(readBody.Blocks, writeBody.Blocks())...)
	}

	if err != nil {
		return nil, errors.Join(ErrParseSweepConfigFile, err)
	}

	var r []*golden.HclBlock

	for _, b := range blocks {
		if golden.IsBlockTypeWanted(b.Type) {
			r = append(r, b)
			continue
		}

		if !ignoreUnsupportedBlock {
			err = multierror.Append(errors.Join(NewErrInvalidBlockType(b.Type, b.Range())), err)
		}
	}

	if err != nil {
		err = errors.Join(ErrParseSweepConfigFile, err)
	}

	return r, err
}
