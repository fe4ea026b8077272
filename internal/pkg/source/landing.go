package source

import (
	"bytes"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/ougirez/covidstat/internal/pkg/constants"
	"mime"
	"net/url"
	"path"
	"strings"
)

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "text/html"
}

// workbookLink finds the first .xlsx link on a landing page and resolves it against pageURL.
func workbookLink(pageURL string, page []byte) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: url.Parse: %w", constants.ErrSourceMalformed, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("%w: goquery.NewDocumentFromReader: %w", constants.ErrSourceMalformed, err)
	}

	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		if strings.EqualFold(path.Ext(ref.Path), ".xlsx") {
			link = base.ResolveReference(ref).String()
			return false
		}
		return true
	})

	if link == "" {
		return "", fmt.Errorf("%w: no workbook link on %s", constants.ErrSourceMalformed, pageURL)
	}

	return link, nil
}
