// Package address parses the composite SQL Server address operators type into
// configuration: host, optional port and optional named instance.
//
// Accepted forms:
//
//	192.168.1.10
//	192.168.1.10,1433
//	192.168.1.10\WEAVER
//	192.168.1.10,1433\WEAVER
package address

import (
	"strconv"
	"strings"
)

const (
	instanceSep = `\`
	portSep     = ","
)

// Parsed holds the fields derived from a raw address. A zero field means the
// raw address did not provide it.
type Parsed struct {
	Server       string
	Port         int
	InstanceName string

	// InvalidPort is the raw port text when a port segment was present but
	// was not a positive integer. Port stays zero in that case.
	InvalidPort string
}

// HasPort reports whether a usable port was parsed.
func (p Parsed) HasPort() bool {
	return p.Port > 0
}

// Parse splits raw into its host, port and instance parts. It never fails;
// malformed port text is reported through InvalidPort.
func Parse(raw string) Parsed {
	var p Parsed
	if raw == "" {
		return p
	}

	serverPart, instancePart, _ := strings.Cut(raw, instanceSep)
	hostPart, portPart, _ := strings.Cut(serverPart, portSep)

	p.Server = hostPart
	p.InstanceName = instancePart

	if portPart != "" {
		port, err := strconv.Atoi(strings.TrimSpace(portPart))
		if err != nil || port <= 0 {
			p.InvalidPort = portPart
		} else {
			p.Port = port
		}
	}

	return p
}
