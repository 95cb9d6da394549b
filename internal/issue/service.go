package issue

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Service identifies the HTTP endpoint an issue was raised against.
type Service struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Protocol string `json:"protocol"`
}

func (s Service) IsZero() bool {
	return s.Host == "" && s.Port == 0 && s.Protocol == ""
}

func (s Service) String() string {
	return s.Protocol + "://" + net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ServiceFromURL derives the service from an http(s) URL, filling the default port.
func ServiceFromURL(u *url.URL) (Service, error) {
	if u == nil {
		return Service{}, ErrMissingURL
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Service{}, fmt.Errorf("unsupported URL scheme: %s (only http/https allowed)", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return Service{}, fmt.Errorf("invalid URL: missing host")
	}

	port := 80
	if scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 || n > 65535 {
			return Service{}, fmt.Errorf("invalid URL port: %s", p)
		}
		port = n
	}

	return Service{Host: strings.ToLower(host), Port: port, Protocol: scheme}, nil
}

// Marker is a [Start, End) byte range inside a request or response.
type Marker struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// RequestResponse is one recorded HTTP transcript.
type RequestResponse struct {
	Request         []byte
	Response        []byte
	Service         Service
	RequestMarkers  []Marker
	ResponseMarkers []Marker
	Comment         string
}

func (rr RequestResponse) clone() RequestResponse {
	out := rr
	out.Request = cloneBytes(rr.Request)
	out.Response = cloneBytes(rr.Response)
	out.RequestMarkers = cloneMarkers(rr.RequestMarkers)
	out.ResponseMarkers = cloneMarkers(rr.ResponseMarkers)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func cloneMarkers(m []Marker) []Marker {
	if m == nil {
		return nil
	}
	out := make([]Marker, len(m))
	copy(out, m)
	return out
}
