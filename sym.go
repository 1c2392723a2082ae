package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/nf/c8/chip8"
)

type symbols []symbol

func (s symbols) forAddr(addr uint16) (ss []symbol) {
	i := sort.Search(len(s), func(i int) bool { return s[i].addr >= addr })
	for ; i < len(s) && s[i].addr == addr; i++ {
		ss = append(ss, s[i])
	}
	return ss
}

func (s symbols) withLabelPrefix(prefix string) (ss []symbol) {
	for _, sym := range s {
		if strings.HasPrefix(sym.label, prefix) {
			ss = append(ss, sym)
		}
	}
	return ss
}

// resolve interprets arg as a symbol label or, failing that, a
// hexadecimal address with an optional 0x prefix.
func (s symbols) resolve(arg string) (symbol, bool) {
	if i := slices.IndexFunc(s, func(sym symbol) bool { return sym.label == arg }); i >= 0 {
		return s[i], true
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 16)
	if err != nil || n >= chip8.MemSize {
		return symbol{}, false
	}
	addr := uint16(n)
	if ss := s.forAddr(addr); len(ss) > 0 {
		return ss[0], true
	}
	return symbol{addr: addr, label: fmt.Sprintf("%.3x", addr)}, true
}

type symbol struct {
	addr  uint16
	label string
}

func (s symbol) String() string { return fmt.Sprintf("%s (%.3x)", s.label, s.addr) }

// parseSymbols reads a symbol file: a sequence of big-endian 16-bit
// addresses, each followed by a NUL-terminated label.
func parseSymbols(symFile string) (symbols, error) {
	b, err := os.ReadFile(symFile)
	if err != nil {
		return nil, err
	}
	var ss symbols
	for len(b) > 0 {
		if len(b) < 3 {
			return nil, fmt.Errorf("invalid symbol at end of file %q", b)
		}
		s := symbol{addr: uint16(b[0])<<8 + uint16(b[1])}
		b = b[2:]
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			return nil, fmt.Errorf("invalid symbol label at %.4x %q", s.addr, b)
		}
		s.label = string(b[:i])
		b = b[i+1:]
		ss = append(ss, s)
	}
	sort.SliceStable(ss, func(i, j int) bool {
		return ss[i].addr < ss[j].addr
	})
	return ss, nil
}

// loadSymbols reads the symbol file that accompanies romFile, if any.
func loadSymbols(romFile string) (symbols, error) {
	ss, err := parseSymbols(romFile + ".sym")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return ss, err
}
