/*
Package csource writes a container out as C source so it can be linked
straight into a ROM.
*/
package csource

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/bodgit/gbavid/container"
)

const wordsPerLine = 8

var header = template.Must(template.New("h").Parse(`// Generated by gbavid, do not edit.
#pragma once

#include <stdint.h>

#define {{.Name}}_WIDTH {{.Width}}
#define {{.Name}}_HEIGHT {{.Height}}
#define {{.Name}}_FRAMES {{.Frames}}
#define {{.Name}}_BITS_PER_PIXEL {{.BitsPerPixel}}
#define {{.Name}}_MAX_MEMORY {{.MaxMemory}}
// Size of {{.Name}}_DATA in 32-bit words
#define {{.Name}}_DATA_SIZE {{.Words}}

extern const uint32_t {{.Name}}_DATA[{{.Name}}_DATA_SIZE];
`))

var source = template.Must(template.New("c").Parse(`// Generated by gbavid, do not edit.
#include "{{.Include}}"

// {{.Steps}}
const uint32_t {{.Name}}_DATA[{{.Name}}_DATA_SIZE] __attribute__((aligned(4))) = {
{{range .Lines}}    {{.}}
{{end}}};
`))

type params struct {
	container.Header
	Name    string
	Include string
	Steps   string
	Words   int
	Lines   []string
}

// Identifier turns s into an upper case C identifier.
func Identifier(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || r == '_'):
			b.WriteRune(unicode.ToUpper(r))
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// Write writes the container in b as a C header to h and C source to c. name
// prefixes every symbol and include is the name the source uses to include
// the header.
func Write(h, c io.Writer, name, include string, b []byte) error {
	ct, err := container.Parse(b)
	if err != nil {
		return err
	}
	b = b[:ct.Size]

	p := params{
		Header:  ct.Header,
		Name:    Identifier(name),
		Include: include,
		Steps:   container.StepsString(ct.Steps),
		Words:   len(b) / 4,
	}

	for i := 0; i < len(b); i += wordsPerLine * 4 {
		var words []string
		for j := i; j < len(b) && j < i+wordsPerLine*4; j += 4 {
			words = append(words, fmt.Sprintf("0x%08x,", binary.LittleEndian.Uint32(b[j:])))
		}
		p.Lines = append(p.Lines, strings.Join(words, " "))
	}

	if err := header.Execute(h, p); err != nil {
		return err
	}
	return source.Execute(c, p)
}
