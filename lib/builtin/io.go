// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"github.com/cxz/crush/lib/binary"
	"github.com/cxz/crush/lib/command"
)

func ioCommands() []*command.Command {
	return []*command.Command{
		csvCommand(),
		linesCommand(),
		openCommand(),
		decompressCommand("zstd", binary.CompressionZstd),
		decompressCommand("lz4", binary.CompressionLZ4),
		jsonReadCommand(),
		cborWriteCommand(),
		cborReadCommand(),
		arrowWriteCommand(),
		arrowReadCommand(),
	}
}
