package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESOptions configures NewESClient. A nil Transport gets a bounded default.
type ESOptions struct {
	Addrs     []string
	Username  string
	Password  string
	Transport http.RoundTripper
}

func defaultESTransport() http.RoundTripper {
	return &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: 5 * time.Second,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
	}
}

// NewESClient builds the client for the course index.
func NewESClient(opts ESOptions) (*elasticsearch.Client, error) {
	tr := opts.Transport
	if tr == nil {
		tr = defaultESTransport()
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     opts.Addrs,
		Username:      opts.Username,
		Password:      opts.Password,
		Transport:     tr,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    2,
	})
}
