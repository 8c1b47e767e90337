package sheet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

const (
	openSheetBase    = "https://opensheet.elk.sh"
	defaultUserAgent = "sheetfolio/1.0"
	maxBodyBytes     = 8 << 20
)

// rowsSchema accepts an array of flat objects with scalar cells.
var rowsSchema = gojsonschema.NewStringLoader(`{
	"type": "array",
	"items": {
		"type": "object",
		"additionalProperties": {"type": ["string", "number", "boolean", "null"]}
	}
}`)

// OpenSheetURL builds the opensheet endpoint for a spreadsheet tab.
func OpenSheetURL(spreadsheetID, sheetName string) string {
	return openSheetBase + "/" + url.PathEscape(strings.TrimSpace(spreadsheetID)) + "/" + url.PathEscape(strings.TrimSpace(sheetName))
}

// HTTPSource fetches rows from a JSON endpoint with a single GET.
type HTTPSource struct {
	url       string
	client    *http.Client
	userAgent string
}

// NewHTTPSource returns a source for endpoint. A nil client gets a 30s timeout.
func NewHTTPSource(endpoint string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{url: endpoint, client: client, userAgent: defaultUserAgent}
}

// URL returns the endpoint this source reads.
func (s *HTTPSource) URL() string {
	return s.url
}

// Fetch performs the GET and decodes the body.
func (s *HTTPSource) Fetch(ctx context.Context) (rows []Record, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return rows, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", s.userAgent)

	var resp *http.Response
	resp, err = s.client.Do(req)
	if err != nil {
		err = errors.Wrapf(err, "HTTP request to %s failed", s.url)
		return rows, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = &StatusError{Code: resp.StatusCode}
		return rows, err
	}

	var body []byte
	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return rows, err
	}

	rows, err = decodeRows(body)
	return rows, err
}

// decodeRows validates the body shape and converts every cell to a string.
// Invalid JSON is an error; valid JSON of the wrong shape is ErrMalformed.
func decodeRows(body []byte) ([]Record, error) {
	result, err := gojsonschema.Validate(rowsSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse response body")
	}
	if !result.Valid() {
		detail := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			detail = append(detail, e.String())
		}
		return nil, errors.Wrap(ErrMalformed, strings.Join(detail, "; "))
	}

	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to decode rows")
	}

	rows := make([]Record, 0, len(raw))
	for _, obj := range raw {
		row := make(Record, len(obj))
		for k, v := range obj {
			row[k] = stringify(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
