package automatic

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"
)

// GenerateSeeds creates n random 32-byte seeds for reproducible deals.
func GenerateSeeds(n int) [][32]byte {
	seeds := make([][32]byte, n)
	for i := range seeds {
		frand.Read(seeds[i][:])
	}
	return seeds
}

// DeriveSeed gives deal i of a run its own seed, so a run can be replayed
// no matter which worker picks up which deal.
func DeriveSeed(master [32]byte, i int) [32]byte {
	var buf [40]byte
	copy(buf[:], master[:])
	binary.LittleEndian.PutUint64(buf[32:], uint64(i))
	out := master
	for j := 0; j < 4; j++ {
		buf[0] ^= byte(j + 1)
		binary.LittleEndian.PutUint64(out[j*8:], xxhash.Sum64(buf[:]))
	}
	return out
}

// WriteSeeds writes seeds one per line in hex.
func WriteSeeds(w io.Writer, seeds [][32]byte) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("# deal seeds, 32 bytes hex each\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, seed := range seeds {
		if _, err := bw.WriteString(hex.EncodeToString(seed[:]) + "\n"); err != nil {
			return fmt.Errorf("failed to write seed %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadSeeds reads what WriteSeeds wrote. Blank lines and # comments are
// skipped.
func ReadSeeds(r io.Reader) ([][32]byte, error) {
	var seeds [][32]byte
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		decoded, err := hex.DecodeString(line)
		if err != nil {
			return nil, fmt.Errorf("failed to decode seed at line %d: %w", lineNum, err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("invalid seed length at line %d: got %d bytes, expected 32", lineNum, len(decoded))
		}
		var seed [32]byte
		copy(seed[:], decoded)
		seeds = append(seeds, seed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seeds: %w", err)
	}
	return seeds, nil
}

// LoadOrCreateSeed returns the first seed in the file at path. When the file
// does not exist it is created holding fallback, or a fresh seed if fallback
// is nil, and created is true. Running again with the same path replays the
// run.
func LoadOrCreateSeed(path string, fallback *[32]byte) (seed [32]byte, created bool, err error) {
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		seeds, err := ReadSeeds(f)
		if err != nil {
			return seed, false, fmt.Errorf("%s: %w", path, err)
		}
		if len(seeds) == 0 {
			return seed, false, fmt.Errorf("%s: no seeds", path)
		}
		return seeds[0], false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return seed, false, err
	}

	if fallback != nil {
		seed = *fallback
	} else {
		seed = GenerateSeeds(1)[0]
	}
	out, err := os.Create(path)
	if err != nil {
		return seed, false, fmt.Errorf("failed to create seed file: %w", err)
	}
	if err := WriteSeeds(out, [][32]byte{seed}); err != nil {
		out.Close()
		return seed, false, err
	}
	if err := out.Close(); err != nil {
		return seed, false, err
	}
	return seed, true, nil
}
