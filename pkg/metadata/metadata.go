// Package metadata extracts resource-level bibliographic metadata from a
// TEI document's teiHeader for the "<work_id>_metadata.json" output
// artefact. Full JSON-LD serialisation is deliberately out of scope; this
// is a thin collaborator that the core pipeline populates from the same
// parsed document it indexes.
package metadata

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/salamanca-digital/citetrail/pkg/tei"
)

// Resource is the resource-level metadata record written alongside the
// index and fragment artefacts: title, authorship, publication facts,
// extent, languages, licence, and IIIF pointers.
type Resource struct {
	WorkID       string   `json:"work_id"`
	Title        string   `json:"title,omitempty"`
	Authors      []string `json:"authors,omitempty"`
	Editors      []string `json:"editors,omitempty"`
	PubDate      string   `json:"pub_date,omitempty"`
	Extent       string   `json:"extent,omitempty"`
	Languages    []string `json:"languages,omitempty"`
	Publishers   []string `json:"publishers,omitempty"`
	Citation     string   `json:"bibliographic_citation,omitempty"`
	Licence      string   `json:"licence,omitempty"`
	IIIFManifest string   `json:"iiif_manifest,omitempty"`
}

// Extract builds a Resource for workID from root's teiHeader/fileDesc,
// following the field list names for the metadata artefact.
// iiifBaseURL is used to derive the work's IIIF manifest pointer; absent
// fields are simply omitted rather than erroring, since the metadata
// artefact is explicitly a best-effort collaborator, not a core
// invariant-bearing component.
func Extract(root *etree.Element, workID, iiifBaseURL string) Resource {
	fileDesc := root.FindElement(".//teiHeader/fileDesc")

	res := Resource{WorkID: workID}

	if fileDesc == nil {
		return res
	}

	titleStmt := fileDesc.FindElement("titleStmt")
	if titleStmt != nil {
		if t := titleStmt.FindElement("title"); t != nil {
			res.Title = strings.TrimSpace(tei.TextContent(t))
		}

		for _, a := range titleStmt.FindElements("author") {
			if name := strings.TrimSpace(tei.TextContent(a)); name != "" {
				res.Authors = append(res.Authors, name)
			}
		}

		for _, e := range titleStmt.FindElements("editor") {
			if name := strings.TrimSpace(tei.TextContent(e)); name != "" {
				res.Editors = append(res.Editors, name)
			}
		}
	}

	if pub := fileDesc.FindElement("publicationStmt"); pub != nil {
		if d := pub.FindElement("date"); d != nil {
			res.PubDate = tei.Attr(d, "when", strings.TrimSpace(tei.TextContent(d)))
		}

		for _, p := range pub.FindElements("publisher") {
			if name := strings.TrimSpace(tei.TextContent(p)); name != "" {
				res.Publishers = append(res.Publishers, name)
			}
		}
	}

	if ext := fileDesc.FindElement("extent"); ext != nil {
		res.Extent = strings.TrimSpace(tei.TextContent(ext))
	}

	for _, lang := range root.FindElements(".//teiHeader/profileDesc/langUsage/language") {
		if ident := tei.Attr(lang, "ident", ""); ident != "" {
			res.Languages = append(res.Languages, ident)
		}
	}

	if bibl := fileDesc.FindElement("sourceDesc/bibl"); bibl != nil {
		res.Citation = strings.TrimSpace(tei.TextContent(bibl))
	}

	if licence := root.FindElement(".//teiHeader/fileDesc/publicationStmt/availability/licence"); licence != nil {
		res.Licence = strings.TrimSpace(tei.TextContent(licence))
	}

	if iiifBaseURL != "" {
		res.IIIFManifest = strings.TrimRight(iiifBaseURL, "/") + "/" + workID + "/manifest.json"
	}

	return res
}
