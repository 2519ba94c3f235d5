package cards

import "fmt"

// CodeType identifies the symbology of a card's scannable code. It is a
// closed enum: the display name and the external symbology identifier of
// each variant live in a single table, so the representations cannot drift
// apart. An unknown value is a programming error, never a runtime condition
// to recover from, and panics.
type CodeType int

const (
	CodeTypeAztec CodeType = iota + 1
	CodeTypeCodabar
	CodeTypeCode39
	CodeTypeCode93
	CodeTypeCode128
	CodeTypeDataMatrix
	CodeTypeEAN8
	CodeTypeEAN13
	CodeTypeITF
	CodeTypePDF417
	CodeTypeQR
	CodeTypeUPCA
	CodeTypeUPCE
)

// Symbology names a barcode format in the vocabulary of the external
// rendering library.
type Symbology string

type codeTypeDesc struct {
	display   string
	symbology Symbology
}

var codeTypes = map[CodeType]codeTypeDesc{
	CodeTypeAztec:      {"Aztec", "AZTEC"},
	CodeTypeCodabar:    {"Codabar", "CODABAR"},
	CodeTypeCode39:     {"Code 39", "CODE_39"},
	CodeTypeCode93:     {"Code 93", "CODE_93"},
	CodeTypeCode128:    {"Code 128", "CODE_128"},
	CodeTypeDataMatrix: {"Data Matrix", "DATA_MATRIX"},
	CodeTypeEAN8:       {"EAN-8", "EAN_8"},
	CodeTypeEAN13:      {"EAN-13", "EAN_13"},
	CodeTypeITF:        {"ITF", "ITF"},
	CodeTypePDF417:     {"PDF 417", "PDF_417"},
	CodeTypeQR:         {"QR Code", "QR_CODE"},
	CodeTypeUPCA:       {"UPC-A", "UPC_A"},
	CodeTypeUPCE:       {"UPC-E", "UPC_E"},
}

func (c CodeType) desc() codeTypeDesc {
	d, ok := codeTypes[c]
	if !ok {
		panic(fmt.Sprintf("unknown code type %d", int(c)))
	}
	return d
}

// String returns the display name, e.g. "EAN-13".
func (c CodeType) String() string { return c.desc().display }

// Symbology returns the external library's format identifier.
func (c CodeType) Symbology() Symbology { return c.desc().symbology }

// Valid reports whether c is a known variant.
func (c CodeType) Valid() bool {
	_, ok := codeTypes[c]
	return ok
}

// AllCodeTypes returns every variant in display order.
func AllCodeTypes() []CodeType {
	return []CodeType{
		CodeTypeAztec, CodeTypeCodabar, CodeTypeCode39, CodeTypeCode93,
		CodeTypeCode128, CodeTypeDataMatrix, CodeTypeEAN8, CodeTypeEAN13,
		CodeTypeITF, CodeTypePDF417, CodeTypeQR, CodeTypeUPCA, CodeTypeUPCE,
	}
}

// ParseCodeType resolves a display name back to its variant.
func ParseCodeType(display string) (CodeType, error) {
	for c, d := range codeTypes {
		if d.display == display {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown code type %q", display)
}

// codeTypeFromStored converts a persisted integer back to its variant. Only
// this package writes the stored value, so an out-of-range integer means
// tampering or a logic bug and panics via desc.
func codeTypeFromStored(v int64) CodeType {
	c := CodeType(v)
	c.desc()
	return c
}

// SymbologyEncoder renders a code payload into a dot matrix for display.
// Implementations wrap an external barcode library; none ships with the
// core. A payload incompatible with the chosen symbology is reported as an
// error, not a panic.
type SymbologyEncoder interface {
	Encode(payload string, codeType CodeType, width, height int) ([][]bool, error)
}
