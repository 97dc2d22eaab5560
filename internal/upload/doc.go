// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package upload stages a trained checkpoint for the Hugging Face Hub and
// publishes it with git. Staging writes the model config, a README model
// card and the weights into a temporary directory; publishing runs
// clone, copy, add, commit and push as a serial runbatch so the steps get
// the same reporting and error handling as every other sweep command.
package upload
