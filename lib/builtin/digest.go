// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package builtin

import (
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/cxz/crush/lib/codec"
	"github.com/cxz/crush/lib/command"
	"github.com/cxz/crush/lib/joberror"
	"github.com/cxz/crush/lib/value"
)

// rowDomainKey keys row digests so they never collide with BLAKE3
// digests of the same bytes taken for another purpose.
var rowDomainKey = [32]byte{
	'c', 'r', 'u', 's', 'h', '.', 'r', 'o', 'w', 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// digest is the keyed BLAKE3 hash of a row's deterministic CBOR
// encoding. Equal rows have equal digests.
type digest [32]byte

func rowDigest(row value.Row) (digest, error) {
	cells := make([]any, row.Len())
	for i := range row.Len() {
		cells[i] = codec.Cell(row.Cell(i))
	}
	encoded, err := codec.Marshal(cells)
	if err != nil {
		return digest{}, joberror.Type("hashing row: %v", err)
	}
	hasher, err := blake3.NewKeyed(rowDomainKey[:])
	if err != nil {
		panic("builtin: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(encoded)
	var sum digest
	copy(sum[:], hasher.Sum(nil))
	return sum, nil
}

type uniqParams struct{}

func uniqCommand() *command.Command {
	return declared(path("stream", "uniq"), &uniqParams{}, runUniq, command.Unknown(),
		"Drop repeated rows",
		"Keeps the first occurrence of every distinct row. Rows are compared by a BLAKE3 "+
			"digest of their encoding, so memory grows with the number of distinct rows, "+
			"not their size.")
}

func runUniq(ctx *command.Context) error {
	var params uniqParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(input.Schema())
	if err != nil {
		return err
	}
	seen := make(map[digest]struct{})
	return eachRow(input, func(row value.Row) error {
		sum, err := rowDigest(row)
		if err != nil {
			return err
		}
		if _, duplicate := seen[sum]; duplicate {
			return nil
		}
		seen[sum] = struct{}{}
		return output.Send(row)
	})
}

var hashSchema = value.MustSchema(
	value.Column("row", value.TypeInteger),
	value.Column("digest", value.TypeString),
)

type hashParams struct{}

func hashCommand() *command.Command {
	return declared(path("stream", "hash"), &hashParams{}, runHash,
		command.Known(value.StreamOf(hashSchema)),
		"Digest every row",
		"Emits the zero-based position and the hex BLAKE3 digest of each input row.")
}

func runHash(ctx *command.Context) error {
	var params hashParams
	if err := ctx.Bind(&params); err != nil {
		return err
	}
	input, err := ctx.InputRows()
	if err != nil {
		return err
	}
	output, err := ctx.Output.Initialize(hashSchema)
	if err != nil {
		return err
	}
	position := 0
	return eachRow(input, func(row value.Row) error {
		sum, err := rowDigest(row)
		if err != nil {
			return err
		}
		if err := output.Send(value.NewRow(value.Integer(position), value.Text(hex.EncodeToString(sum[:])))); err != nil {
			return err
		}
		position++
		return nil
	})
}
