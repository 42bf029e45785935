package form

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a single-section PDF from numbered object bodies.
// Object i+1 is objects[i]; object 1 must be the catalog.
func buildPDF(objects []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int, len(objects)+1)
	for i, body := range objects {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefOffset)
	return buf.Bytes()
}

// sampleFormPDF builds a one-page document with five fields: two text fields
// (Lastname prefilled, Firstname empty with MaxLen 20), two checkboxes (Men,
// Women) and the MaritalStatus radio group with kids Divorced, Married and
// Single, currently Married. Objects 12 and 13 are shared appearance streams.
func sampleFormPDF(withXFA bool) []byte {
	acroForm := "<< /Fields [4 0 R 5 0 R 6 0 R 7 0 R 8 0 R] >>"
	if withXFA {
		acroForm = "<< /Fields [4 0 R 5 0 R 6 0 R 7 0 R 8 0 R] /XFA 14 0 R >>"
	}

	objects := []string{
		fmt.Sprintf("<< /Type /Catalog /Pages 2 0 R /AcroForm %s >>", acroForm),
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] " +
			"/Annots [4 0 R 5 0 R 6 0 R 7 0 R 9 0 R 10 0 R 11 0 R] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (Lastname) /V (Presley) /Rect [50 700 250 720] >>",
		"<< /Type /Annot /Subtype /Widget /FT /Tx /T (Firstname) /MaxLen 20 /Rect [50 670 250 690] >>",
		checkBoxObj("Men", "[50 640 65 655]"),
		checkBoxObj("Women", "[50 610 65 625]"),
		"<< /FT /Btn /Ff 49152 /T (MaritalStatus) /V /Married /Kids [9 0 R 10 0 R 11 0 R] >>",
		radioKidObj("Divorced", "Off", "[50 580 65 595]"),
		radioKidObj("Married", "Married", "[80 580 95 595]"),
		radioKidObj("Single", "Off", "[110 580 125 595]"),
		formXObjectStream(),
		formXObjectStream(),
	}
	if withXFA {
		objects = append(objects, "<< /Length 3 >>\nstream\nxfa\nendstream")
	}
	return buildPDF(objects)
}

func checkBoxObj(name, rect string) string {
	return fmt.Sprintf("<< /Type /Annot /Subtype /Widget /FT /Btn /T (%s) /V /Off /AS /Off "+
		"/AP << /N << /Yes 12 0 R /Off 13 0 R >> /D << /Yes 12 0 R /Off 13 0 R >> >> /Rect %s >>",
		name, rect)
}

func radioKidObj(export, state, rect string) string {
	return fmt.Sprintf("<< /Type /Annot /Subtype /Widget /Parent 8 0 R /AS /%s "+
		"/AP << /N << /%s 12 0 R /Off 13 0 R >> >> /Rect %s >>", state, export, rect)
}

func formXObjectStream() string {
	return "<< /Type /XObject /Subtype /Form /BBox [0 0 15 15] /Length 0 >>\nstream\nendstream"
}

// noFormPDF builds a one-page document without AcroForm or annotations.
func noFormPDF() []byte {
	return buildPDF([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	})
}

func mustContext(t *testing.T, pdf []byte) *model.Context {
	t.Helper()
	ctx, err := readContext(bytes.NewReader(pdf))
	require.NoError(t, err)
	return ctx
}

func writeTempPDF(t *testing.T, pdf []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.pdf")
	require.NoError(t, os.WriteFile(path, pdf, 0o644))
	return path
}

// widgetAnnotations returns every widget annotation on every page, in page
// and annotation order.
func widgetAnnotations(t *testing.T, ctx *model.Context) []*node {
	t.Helper()
	require.NoError(t, ctx.EnsurePageCount())

	var annots []*node
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		require.NoError(t, err)
		if pageDict == nil {
			continue
		}
		arr, ok := newNode(ctx, pageDict).array("Annots")
		if !ok {
			continue
		}
		for _, ref := range arr {
			d, err := ctx.DereferenceDict(ref)
			require.NoError(t, err)
			if st, ok := newNode(ctx, d).name("Subtype"); ok && st == "Widget" {
				annots = append(annots, newNode(ctx, d))
			}
		}
	}
	return annots
}

// fieldDictFor resolves the field dictionary (annotation or its parent group)
// for a fully qualified field name in ctx.
func fieldDictFor(t *testing.T, ctx *model.Context, name string) *node {
	t.Helper()
	for _, annot := range widgetAnnotations(t, ctx) {
		field := annot
		if !field.has("T") {
			parent, ok := field.child("Parent")
			require.True(t, ok)
			field = parent
		}
		if resolved, ok := resolveName(field); ok && resolved == name {
			return field
		}
	}
	t.Fatalf("field %s not found", name)
	return nil
}
