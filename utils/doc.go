// SPDX-License-Identifier: EPL-2.0

// Package utils converts between normalized float32 samples and the PCM
// encodings understood by package dmix.
package utils
