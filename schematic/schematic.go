// Package schematic decodes a Sponge Schematic v2 region file from an
// already-parsed NBT Compound: a rectangular voxel region, its
// block-state palette, and the flat VarInt-encoded block index array.
package schematic

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jpuleo/mcgate/nbt"
	"github.com/jpuleo/mcgate/resource"
	"github.com/jpuleo/mcgate/wire"
)

// spongeVersion is the only schematic version this decoder understands.
const spongeVersion = 2

// ErrUnsupportedVersion is returned when the schematic's Version field
// is present but not equal to 2.
var ErrUnsupportedVersion = errors.New("schematic: unsupported version")

// MissingFieldError names the required field a schematic Compound lacked.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("schematic: missing required field %q", e.Field)
}

// Schematic is a decoded Sponge v2 region: dimensions, a palette from
// index to block state, and the flat per-voxel index list.
type Schematic struct {
	DataVersion int32
	Width       uint16
	Height      uint16
	Length      uint16
	Palette     map[int32]resource.BlockState
	BlockData   []int32
}

// Decode validates and decodes a Sponge v2 schematic from an
// already-parsed NBT root Compound.
func Decode(root *nbt.Compound) (*Schematic, error) {
	versionVal, ok := root.Get("Version")
	if !ok {
		return nil, &MissingFieldError{Field: "Version"}
	}
	version, ok := versionVal.(nbt.Int)
	if !ok || int32(version) != spongeVersion {
		return nil, ErrUnsupportedVersion
	}

	for _, field := range []string{"DataVersion", "Width", "Height", "Length", "Palette", "BlockData"} {
		if !root.Has(field) {
			return nil, &MissingFieldError{Field: field}
		}
	}

	dataVersion, ok := mustGet(root, "DataVersion").(nbt.Int)
	if !ok {
		return nil, fieldTypeError("DataVersion", nbt.TagInt)
	}
	width, ok := mustGet(root, "Width").(nbt.Short)
	if !ok {
		return nil, fieldTypeError("Width", nbt.TagShort)
	}
	height, ok := mustGet(root, "Height").(nbt.Short)
	if !ok {
		return nil, fieldTypeError("Height", nbt.TagShort)
	}
	length, ok := mustGet(root, "Length").(nbt.Short)
	if !ok {
		return nil, fieldTypeError("Length", nbt.TagShort)
	}
	paletteVal, ok := mustGet(root, "Palette").(*nbt.Compound)
	if !ok {
		return nil, fieldTypeError("Palette", nbt.TagCompound)
	}
	blockDataVal, ok := mustGet(root, "BlockData").(nbt.ByteArray)
	if !ok {
		return nil, fieldTypeError("BlockData", nbt.TagByteArray)
	}

	schematic := &Schematic{
		DataVersion: int32(dataVersion),
		Width:       uint16(width),
		Height:      uint16(height),
		Length:      uint16(length),
		Palette:     make(map[int32]resource.BlockState, paletteVal.Len()),
	}

	for _, key := range paletteVal.Names() {
		state, err := resource.ParseBlockState(key)
		if err != nil {
			return nil, fmt.Errorf("schematic: palette key %q: %w", key, err)
		}
		indexVal, _ := paletteVal.Get(key)
		index, ok := indexVal.(nbt.Int)
		if !ok {
			return nil, fmt.Errorf("schematic: palette entry %q has non-Int value", key)
		}
		schematic.Palette[int32(index)] = state
	}

	blockData, err := decodeBlockData(blockDataVal)
	if err != nil {
		return nil, err
	}
	schematic.BlockData = blockData

	return schematic, nil
}

func mustGet(c *nbt.Compound, name string) nbt.Value {
	v, _ := c.Get(name)
	return v
}

func fieldTypeError(field string, want nbt.TagType) error {
	return fmt.Errorf("schematic: field %q is not a %s", field, want)
}

// decodeBlockData walks BlockData as a byte sequence, treating each
// byte as the next LEB group of a signed VarInt, until every byte is
// consumed.
func decodeBlockData(raw nbt.ByteArray) ([]int32, error) {
	buf := make([]byte, len(raw))
	for i, b := range raw {
		buf[i] = byte(b)
	}
	r := bytes.NewReader(buf)

	var indices []int32
	for r.Len() > 0 {
		var v wire.VarInt
		if _, err := v.ReadFrom(r); err != nil {
			return nil, fmt.Errorf("schematic: decoding BlockData: %w", err)
		}
		indices = append(indices, int32(v))
	}
	return indices, nil
}

// ErrOutOfBounds is returned by At for a coordinate outside the
// schematic's dimensions.
var ErrOutOfBounds = errors.New("schematic: coordinate out of bounds")

// At returns the block state at (x, y, z) using the Y-major,
// Z-middle, X-minor index convention: x + z*W + y*W*L.
func (s *Schematic) At(x, y, z uint16) (resource.BlockState, error) {
	if x >= s.Width || y >= s.Height || z >= s.Length {
		return resource.BlockState{}, ErrOutOfBounds
	}
	pos := int(x) + int(z)*int(s.Width) + int(y)*int(s.Width)*int(s.Length)
	if pos < 0 || pos >= len(s.BlockData) {
		return resource.BlockState{}, ErrOutOfBounds
	}
	index := s.BlockData[pos]
	state, ok := s.Palette[index]
	if !ok {
		return resource.BlockState{}, fmt.Errorf("schematic: block index %d not in palette", index)
	}
	return state, nil
}
