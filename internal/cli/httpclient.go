package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

func httpDoJSON(method, url string, body []byte, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if showCurl {
		fmt.Println(curlFor(method, url, body, headers))
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return b, resp.StatusCode, nil
}

func curlFor(method, url string, body []byte, headers map[string]string) string {
	sb := &bytes.Buffer{}
	fmt.Fprintf(sb, "curl -i -X %s '%s'", method, url)
	for k, v := range headers {
		fmt.Fprintf(sb, " -H %q", fmt.Sprintf("%s: %s", k, v))
	}
	if len(body) > 0 {
		tmp := ".curl-body.json"
		_ = os.WriteFile(tmp, body, 0o600)
		fmt.Fprintf(sb, " --data-binary @%s", tmp)
	}
	return sb.String()
}

// errorBundleKinds lists the ErrorBundle arrays in the same order
// internal/authzee.ErrorBundle declares them, so printErrorBundleSummary
// reports kinds in a stable, predictable order regardless of map
// iteration.
var errorBundleKinds = []string{"context", "definition", "grant", "jmespath", "request"}

// printJSON pretty-prints a workflow response body, and when it carries
// a non-empty ErrorBundle (the "errors" field every Audit/Authorize
// response has), prints a one-line-per-kind summary first so a halted
// or error-laden call doesn't require scrolling through the full
// response to see what went wrong.
func printJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		fmt.Println(string(b))
		return nil
	}

	if m, ok := v.(map[string]any); ok {
		if errs, ok := m["errors"].(map[string]any); ok {
			printErrorBundleSummary(errs)
		}
	}

	enc, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(enc))
	return nil
}

func printErrorBundleSummary(errs map[string]any) {
	for _, kind := range errorBundleKinds {
		arr, ok := errs[kind].([]any)
		if !ok || len(arr) == 0 {
			continue
		}
		fmt.Printf("%d %s error(s)\n", len(arr), kind)
	}
}
