package layoutfmt

import (
	"encoding/json"
	"io"

	"msgc/internal/layout"
)

type sizeJSON struct {
	Size32 int64 `json:"size32"`
	Size64 int64 `json:"size64"`
}

type fieldJSON struct {
	Name    string   `json:"name"`
	Number  int32    `json:"number"`
	Kind    string   `json:"kind"`
	Label   string   `json:"label"`
	Offset  sizeJSON `json:"offset"`
	Hasbit  int      `json:"hasbit,omitempty"`
	Oneof   string   `json:"oneof,omitempty"`
}

type oneofJSON struct {
	Name       string   `json:"name"`
	CaseOffset sizeJSON `json:"case_offset"`
}

type messageJSON struct {
	Name          string      `json:"name"`
	Size          sizeJSON    `json:"size"`
	HasbitCount   int         `json:"hasbit_count"`
	HasbitBytes   int64       `json:"hasbit_bytes"`
	RequiredCount int         `json:"required_count"`
	Fields        []fieldJSON `json:"fields"`
	Oneofs        []oneofJSON `json:"oneofs,omitempty"`
}

type fileJSON struct {
	Path     string        `json:"path,omitempty"`
	Messages []messageJSON `json:"messages"`
}

func toSizeJSON(s layout.Size) sizeJSON {
	return sizeJSON{Size32: s.Size32, Size64: s.Size64}
}

// JSON writes the layouts of one schema file as a single JSON document.
// Exports are already name-sorted, so output is stable.
func JSON(w io.Writer, path string, exports []*layout.MessageExport, opts JSONOpts) error {
	doc := fileJSON{Path: path}
	for _, export := range exports {
		mj := messageJSON{
			Name:          export.Name,
			Size:          toSizeJSON(export.Size),
			HasbitCount:   export.HasbitCount,
			HasbitBytes:   export.HasbitBytes,
			RequiredCount: export.RequiredCount,
		}
		for _, f := range export.Fields {
			mj.Fields = append(mj.Fields, fieldJSON{
				Name:   f.Name,
				Number: f.Number,
				Kind:   f.Kind,
				Label:  f.Label,
				Offset: toSizeJSON(f.Offset),
				Hasbit: f.Hasbit,
				Oneof:  f.Oneof,
			})
		}
		for _, o := range export.Oneofs {
			mj.Oneofs = append(mj.Oneofs, oneofJSON{
				Name:       o.Name,
				CaseOffset: toSizeJSON(o.CaseOffset),
			})
		}
		doc.Messages = append(doc.Messages, mj)
	}

	enc := json.NewEncoder(w)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
