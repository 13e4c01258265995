package inputguard

import (
	"net/netip"
	"strings"
)

// reservedRanges are address blocks that are never externally reachable
// targets: RFC 1918 private space, loopback, link-local, "this network",
// multicast, and the class E reserved block.
var reservedRanges = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("224.0.0.0/4"),
	netip.MustParsePrefix("240.0.0.0/4"),
}

// IsValidIPAddress reports whether s is a syntactically valid IPv4 or IPv6
// literal. It makes no reachability or policy judgment.
func IsValidIPAddress(s string) bool {
	if s == "" || len(s) > maxLength(KindIPAddress) {
		return false
	}
	_, err := netip.ParseAddr(s)
	return err == nil
}

// IsValidHostname reports whether s is a structurally valid hostname:
// at most 255 characters, dot-separated labels of 1-63 characters each,
// labels starting and ending alphanumeric.
func IsValidHostname(s string) bool {
	if s == "" || len(s) > maxLength(KindHostname) {
		return false
	}

	labels := strings.Split(strings.TrimSuffix(s, "."), ".")
	if len(labels) == 0 {
		return false
	}
	for _, label := range labels {
		if len(label) == 0 || len(label) > 63 {
			return false
		}
		if !hostnameLabelPattern.MatchString(label) {
			return false
		}
	}

	return true
}

// IsExternalTarget reports whether target names something that may be
// probed as an externally reachable host. An IP literal must be valid AND
// outside every reserved range; a non-literal must be a valid hostname.
// This is a policy layer on top of syntactic validity, not a replacement
// for it.
func IsExternalTarget(target string) bool {
	if addr, err := netip.ParseAddr(target); err == nil {
		if len(target) > maxLength(KindIPAddress) {
			return false
		}
		addr = addr.Unmap()
		if addr.Is6() {
			return !addr.IsLoopback() && !addr.IsLinkLocalUnicast() &&
				!addr.IsMulticast() && !addr.IsPrivate() && !addr.IsUnspecified()
		}
		for _, prefix := range reservedRanges {
			if prefix.Contains(addr) {
				return false
			}
		}
		return true
	}

	return IsValidHostname(target)
}

// blockedPorts are administrative and remote-management ports that scanning
// or connection features must never target.
var blockedPorts = map[int]struct{}{
	22:   {},
	23:   {},
	135:  {},
	139:  {},
	445:  {},
	3389: {},
	5985: {},
	5986: {},
}

// IsBlockedPort reports whether port is on the sensitive-port denylist.
func IsBlockedPort(port int) bool {
	_, blocked := blockedPorts[port]
	return blocked
}
