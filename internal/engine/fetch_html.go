package engine

import (
	"bytes"
	"context"
	"log/slog"
	"mime"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

var removeSelectors = strings.Join([]string{
	"script", "style", "noscript", "iframe", "svg", "form",
	"header", "footer", "nav", "aside",
	".advertisement", ".ad", ".sidebar", ".comments",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]",
}, ", ")

const contentSelectors = "article, main, [role=main], .content, .post-content, .article-content, #content"

// FetchPage fetches rawURL and returns its main content as markdown,
// capped at maxChars runes (cfg.MaxContentChars when maxChars <= 0).
func FetchPage(ctx context.Context, rawURL string, maxChars int) (res *FetchResult, err error) {
	metrics.FetchRequests.Add(1)
	defer func() {
		if err != nil {
			metrics.FetchErrors.Add(1)
		}
	}()
	if maxChars <= 0 {
		maxChars = cfg.MaxContentChars
	}

	target, fileName := rawSourceURL(rawURL)
	resp, err := fetchWithRetry(ctx, target)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	var title, content string
	if isHTML(resp.Header.Get("Content-Type"), body) {
		title, content, err = htmlToMarkdown(body)
		if err != nil {
			return nil, NewToolError(KindDecode, err, "HTML parse error: %v", err)
		}
	} else {
		title = fileName
		content = strings.TrimSpace(string(body))
	}

	res = &FetchResult{URL: rawURL, Title: title, Content: TruncateRunes(content, maxChars, "...")}
	res.Truncated = res.Content != content
	slog.Debug("fetched page", slog.String("url", rawURL), slog.Int("chars", len(res.Content)))
	return res, nil
}

func isHTML(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt == "text/html" || mt == "application/xhtml+xml"
	}
	head := bytes.ToLower(body[:min(len(body), 512)])
	return bytes.Contains(head, []byte("<html")) || bytes.Contains(head, []byte("<!doctype html"))
}

// htmlToMarkdown selects the main content block, strips page chrome, and
// converts it to markdown. Falls back to collapsed plain text when conversion fails.
func htmlToMarkdown(body []byte) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title, _ = doc.Find("meta[property='og:title']").First().Attr("content")
		title = strings.TrimSpace(title)
	}

	doc.Find(removeSelectors).Remove()

	sel := doc.Find(contentSelectors).First()
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}

	inner, err := goquery.OuterHtml(sel)
	if err == nil {
		if md, convErr := htmltomarkdown.ConvertString(inner); convErr == nil {
			return title, strings.TrimSpace(md), nil
		}
	}
	return title, CollapseSpace(sel.Text()), nil
}
