package gf

import (
	"fmt"
	"strings"
)

// ComposeField renders the placement and graphic-field commands for one
// field: ^FOx,y^GF<letter>,<binary>,<total>,<stride>,<payload>^FS.
func ComposeField(f Field) string {
	return fmt.Sprintf("^FO%d,%d^GF%c,%d,%d,%d,%s^FS",
		f.PosX, f.PosY, f.Encoding.Letter(),
		f.BinaryByteCount, f.TotalByteCount, f.BytesPerRow, f.Payload)
}

// WrapDocument wraps rendered fields into one printable label. Each field
// sits on its own line between the label-start and label-end commands.
func WrapDocument(fields ...string) string {
	var b strings.Builder
	b.WriteString("^XA\n")
	for _, f := range fields {
		b.WriteString(f)
		b.WriteString("\n")
	}
	b.WriteString("^XZ\n")
	return b.String()
}

// WrapDocuments emits one complete ^XA...^XZ document per field, for
// callers turning every source page into its own label.
func WrapDocuments(fields ...string) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(WrapDocument(f))
	}
	return b.String()
}
