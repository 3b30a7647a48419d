package analog

import (
	"fmt"
	"regexp"
	"strings"
)

var nodeIDRe = regexp.MustCompile(`(?i)^node://(\w+)(.*)`)

// PathsEqual compares two log ids ignoring case and slash direction so that paths
// coming from different operating systems match.
func PathsEqual(a, b string) bool {
	return normalizePath(a) == normalizePath(b)
}

func normalizePath(p string) string {
	return strings.ReplaceAll(strings.ToLower(p), `\`, "/")
}

// AddLeadingSlash prefixes scheme-qualified ids (anything containing a colon) with a
// slash so they can live in a URL-like path without being confused with POSIX paths.
func AddLeadingSlash(id string) string {
	if strings.Contains(id, ":") && !strings.HasPrefix(id, "/") {
		return "/" + id
	}
	return id
}

// RemoveLeadingSlash reverses AddLeadingSlash. Pure POSIX paths are left untouched.
func RemoveLeadingSlash(id string) string {
	if strings.Contains(id, ":") {
		return strings.TrimPrefix(id, "/")
	}
	return id
}

// FileName returns the part of the id after the last forward or backward slash. For
// container ids this is the target resource (container or pod) rather than a file.
func FileName(id string) string {
	idx := max(strings.LastIndex(id, "/"), strings.LastIndex(id, `\`))
	return id[idx+1:]
}

// DetectLogType derives the log type from the id scheme.
func DetectLogType(id string) LogType {
	scheme, _, found := strings.Cut(id, "://")
	if !found {
		return LogTypeLocalFile
	}
	switch up := strings.ToUpper(scheme); up {
	case "K8S":
		return LogTypeKubernetes
	default:
		return LogType(up)
	}
}

// ExtractNode returns the node of a node:// id or "(n/a)".
func ExtractNode(id string) string {
	if m := nodeIDRe.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return "(n/a)"
}

// ExtractPath returns the path part of a node:// id, or the id itself otherwise.
func ExtractPath(id string) string {
	if m := nodeIDRe.FindStringSubmatch(id); m != nil {
		return RemoveLeadingSlash(m[2])
	}
	return id
}

// NodeLabel summarizes where a choice's records come from, e.g. "composite: app1(2), db"
// or "remote: app1".
func NodeLabel(c Choice) string {
	all := append([]Inclusion{{Node: c.Node, Path: c.Path}}, c.Includes...)
	if len(all) == 1 {
		prefix := "local: "
		if c.Remote {
			prefix = "remote: "
		}
		if c.Node == "" {
			return prefix + "current node"
		}
		return prefix + c.Node
	}

	counts := make(map[string]int, len(all))
	var order []string
	for _, inc := range all {
		if counts[inc.Node] == 0 {
			order = append(order, inc.Node)
		}
		counts[inc.Node]++
	}
	parts := make([]string, 0, len(order))
	for _, node := range order {
		if counts[node] > 1 {
			parts = append(parts, fmt.Sprintf("%s(%d)", node, counts[node]))
			continue
		}
		parts = append(parts, node)
	}
	return "composite: " + strings.Join(parts, ", ")
}
