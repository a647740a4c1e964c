package storage

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"property-reviews-server/config"
)

// Cloudinary is the blob store. Clients upload directly using a signed
// authorization from UploadSignature; the server only ever deletes by
// reference id. Configuration comes from config.AppConfig (CLOUDINARY_*).

// UploadSignature produces the time-limited signed fields payload for a
// direct client-to-Cloudinary upload. The signature is sha1 over the sorted
// key=value pairs joined with '&', followed by the shared API secret.
func UploadSignature(folder string) (map[string]string, error) {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary not configured")
	}
	if folder == "" {
		folder = cfg.CloudinaryFolder
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	params := map[string]string{
		"timestamp": timestamp,
		"folder":    folder,
	}

	return map[string]string{
		"cloud_name": cfg.CloudinaryCloudName,
		"api_key":    cfg.CloudinaryAPIKey,
		"timestamp":  timestamp,
		"folder":     folder,
		"signature":  SignParams(params, cfg.CloudinaryAPISecret),
	}, nil
}

// SignParams signs a parameter set the way Cloudinary expects: sorted
// key=value pairs joined with '&', secret appended, sha1 hex digest.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	signatureString := strings.Join(pairs, "&") + secret
	return fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))
}

// DeleteImage removes an image from Cloudinary by public id. Best-effort:
// a false return is logged by callers and never blocks entity deletion.
func DeleteImage(publicID string) bool {
	cfg := config.AppConfig
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		fmt.Printf("ERROR: Missing Cloudinary configuration\n")
		return false
	}
	if publicID == "" {
		return false
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature := SignParams(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}, cfg.CloudinaryAPISecret)

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", cfg.CloudinaryAPIKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signature)

	endpoint := "https://api.cloudinary.com/v1_1/" + cfg.CloudinaryCloudName + "/image/destroy"
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		fmt.Printf("ERROR: Failed to create deletion request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("ERROR: Deletion request failed: %v\n", err)
		return false
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Printf("ERROR: Failed to read deletion response: %v\n", err)
		return false
	}

	if res.StatusCode != 200 {
		fmt.Printf("ERROR: Deletion failed with status %d: %s\n", res.StatusCode, string(body))
		return false
	}

	var deleteRes struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &deleteRes); err != nil {
		fmt.Printf("ERROR: Failed to parse deletion response: %v\n", err)
		return false
	}
	if deleteRes.Error.Message != "" {
		fmt.Printf("ERROR: Cloudinary deletion error: %s\n", deleteRes.Error.Message)
		return false
	}
	return deleteRes.Result == "ok"
}

// PublicIDFromURL extracts the Cloudinary public id from a delivery URL so
// legacy rows storing full URLs can still be deleted by reference.
func PublicIDFromURL(imageURL string) string {
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return ""
	}
	if !strings.Contains(imageURL, "/upload/") {
		return ""
	}
	path := strings.SplitN(imageURL, "/upload/", 2)[1]
	// Strip version prefix (v1234567890/) when present.
	if strings.HasPrefix(path, "v") && strings.Contains(path, "/") {
		rest := strings.SplitN(path, "/", 2)[1]
		allDigits := true
		for _, c := range path[1:strings.Index(path, "/")] {
			if c < '0' || c > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			path = rest
		}
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		path = path[:i]
	}
	return path
}
