package tdms

import "strings"

// parsePath splits an object path into its group and channel name
// components. Path syntax is `/'group'/'channel'`, where a name containing
// a literal single quote escapes it as two single quotes; a slash inside
// quotes is part of the name, not a delimiter. The root object's path is
// the empty string, and a group-only path has no channel component.
func parsePath(path string) (groupName, channelName string, err error) {
	if path == "" {
		return "", "", nil
	}

	components := make([]string, 0, 2)

	i := 0
	for i < len(path) {
		if path[i] != '/' {
			return "", "", ErrInvalidPath
		}
		if i+1 >= len(path) || path[i+1] != '\'' {
			return "", "", ErrInvalidPath
		}
		i++

		var b strings.Builder
		i++
		for {
			if i >= len(path) {
				return "", "", ErrInvalidPath
			}
			if path[i] == '\'' {
				if i+1 < len(path) && path[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				components = append(components, b.String())
				i++
				break
			}
			b.WriteByte(path[i])
			i++
		}
	}

	if len(components) > 0 {
		groupName = components[0]
	}
	if len(components) > 1 {
		channelName = components[1]
	}
	return groupName, channelName, nil
}

// encodePath builds an object path from its group and channel name
// components, escaping any single quotes in each name. Passing an empty
// groupName returns the root object path.
func encodePath(groupName, channelName string) string {
	if groupName == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("/'")
	b.WriteString(strings.ReplaceAll(groupName, "'", "''"))
	b.WriteByte('\'')
	if channelName != "" {
		b.WriteString("/'")
		b.WriteString(strings.ReplaceAll(channelName, "'", "''"))
		b.WriteByte('\'')
	}
	return b.String()
}
