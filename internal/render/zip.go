package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Bundle packs rendered documents into a single ZIP archive. File names are
// derived from the document title and the NIT number so a full run for one
// work item unzips into self-describing files.
func Bundle(nitNumber, itemNo string, results []*Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, eris.New("render: nothing to bundle")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, res := range results {
		name := ArchiveName(res.Kind, nitNumber, itemNo, res.Ext)
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return nil, eris.Wrapf(err, "render: zip entry %s", name)
		}
		if _, err := w.Write(res.Bytes); err != nil {
			zw.Close()
			return nil, eris.Wrapf(err, "render: zip write %s", name)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, eris.Wrap(err, "render: zip close")
	}
	return buf.Bytes(), nil
}

// ArchiveName builds the file name used for a document both inside bundles
// and for loose output files.
func ArchiveName(kind DocumentKind, nitNumber, itemNo, ext string) string {
	return fmt.Sprintf("%s_%s_item%s.%s", string(kind), safeName(nitNumber), safeName(itemNo), ext)
}

// safeName replaces path separators and spaces so NIT numbers like
// "24/2023-24" stay one path segment.
func safeName(s string) string {
	r := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	out := r.Replace(strings.TrimSpace(s))
	if out == "" {
		return "unknown"
	}
	return out
}
