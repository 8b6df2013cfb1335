package controllerImp

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

// IngestFile ingests an uploaded plain-text file under a category.
func (h *RAGCtrl) IngestFile(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "no file provided"})
	}
	category := strings.TrimSpace(c.FormValue("category"))
	if category == "" {
		category = "general"
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	defer f.Close()
	limited := io.LimitedReader{R: f, N: int64(h.maxBytes)}
	b, err := io.ReadAll(&limited)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	if strings.TrimSpace(string(b)) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "file is empty"})
	}

	count, err := h.s.Ingest(string(b), category, fh.Filename, nil, 0, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"chunks_created": count,
		"category":       category,
		"source":         fh.Filename,
	})
}

type ingestURLReq struct {
	URL      string `json:"url"`
	Category string `json:"category"`
	Title    string `json:"title"`
}

// IngestURL fetches an allowed page, extracts its main text and ingests it
// with the URL as the source label.
func (h *RAGCtrl) IngestURL(c echo.Context) error {
	var req ingestURLReq
	if err := c.Bind(&req); err != nil || req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "url required"})
	}
	if strings.TrimSpace(req.Category) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "category is required"})
	}
	u, err := url.Parse(req.URL)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "bad url"})
	}
	if !h.allow[strings.ToLower(u.Host)] {
		return c.JSON(http.StatusForbidden, map[string]any{"error": "domain not allowed"})
	}

	txt, title, err := fetchMainText(req.URL, h.maxBytes)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]any{"error": err.Error()})
	}
	if req.Title != "" {
		title = req.Title
	}

	meta := map[string]any{"title": title}
	count, err := h.s.Ingest(txt, strings.TrimSpace(req.Category), req.URL, meta, 0, 50)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"chunks_created": count,
		"category":       strings.TrimSpace(req.Category),
		"source":         req.URL,
		"title":          title,
	})
}

// ImportXLSX bulk-ingests a workbook whose first sheet has
// content | category | source columns. A header row is skipped when the
// first cell literally says "content".
func (h *RAGCtrl) ImportXLSX(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "no file provided"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	defer f.Close()

	x, err := excelize.OpenReader(f)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "bad workbook: " + err.Error()})
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "workbook has no sheets"})
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}

	defaultCategory := strings.TrimSpace(c.FormValue("category"))
	imported, chunks := 0, 0
	var skipped []int
	for i, row := range rows {
		if i == 0 && len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "content") {
			continue
		}
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}
		content, category, source := cell(0), cell(1), cell(2)
		if category == "" {
			category = defaultCategory
		}
		if content == "" || category == "" {
			skipped = append(skipped, i+1)
			continue
		}
		if source == "" {
			source = fh.Filename
		}
		n, err := h.s.Ingest(content, category, source, nil, 0, 50)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]any{"error": fmt.Sprintf("row %d: %v", i+1, err)})
		}
		imported++
		chunks += n
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"rows_imported":  imported,
		"chunks_created": chunks,
		"rows_skipped":   skipped,
		"source":         fh.Filename,
	})
}

// --- helpers ---

func fetchMainText(u string, maxBytes int) (string, string, error) {
	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Get(u)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.ContentLength > 0 && resp.ContentLength > int64(maxBytes) {
		return "", "", fmt.Errorf("page too large")
	}
	limited := io.LimitedReader{R: resp.Body, N: int64(maxBytes)}
	b, err := io.ReadAll(&limited)
	if err != nil {
		return "", "", err
	}
	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(ct, "text/html") && !strings.Contains(ct, "text/plain") {
		return "", "", fmt.Errorf("unsupported content-type: %s", ct)
	}
	if strings.Contains(ct, "text/plain") {
		return string(b), guessTitleFromText(string(b)), nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	if err != nil {
		return "", "", err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())

	// main content only: article/main when present, headers + paragraphs + list items
	var parts []string
	sel := doc.Find("main, article")
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	sel.Find("h1,h2,h3,p,li").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if len(t) > 0 {
			parts = append(parts, t)
		}
	})
	text := cleanWhitespace(strings.Join(parts, "\n"))
	return text, title, nil
}

var wsRX = regexp.MustCompile(`\s+\n`)

func cleanWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return wsRX.ReplaceAllString(s, "\n")
}

func guessTitleFromText(s string) string {
	line := strings.SplitN(strings.TrimSpace(s), "\n", 2)[0]
	if len(line) > 120 {
		line = line[:120]
	}
	return line
}
