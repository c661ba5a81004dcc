package importer

import (
	"bufio"
	"io"
	"strings"
)

const skinIniName = "skin.ini"

// skinMetadata is the [General] section of a legacy skin.ini.
type skinMetadata struct {
	Name    string
	Author  string
	Version string
}

// parseSkinIni reads "Key: Value" pairs from the [General] section. Other
// sections, comments and unknown keys are ignored.
func parseSkinIni(r io.Reader) (skinMetadata, error) {
	var meta skinMetadata
	section := ""

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}
		if section != "general" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "name":
			meta.Name = value
		case "author":
			meta.Author = value
		case "version":
			meta.Version = value
		}
	}
	return meta, scanner.Err()
}
