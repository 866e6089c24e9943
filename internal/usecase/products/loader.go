package products

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hunkyJay/ProgExchange-Platform/pkg/errors"
)

const maxNameLen = 16

// Load reads the product catalog file: the first line is the product count,
// followed by one alphanumeric name (at most 16 characters) per line. Names
// must be unique. Any violation is a fatal bootstrap error.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewTracer("opening products file").Wrap(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, errors.NewTracer("products file is empty")
	}

	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || count < 1 {
		return nil, errors.NewTracer("products file must start with a positive count")
	}

	names := make([]string, 0, count)
	seen := make(map[string]bool, count)
	for len(names) < count && scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if err := validateName(name); err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, errors.NewTracer(fmt.Sprintf("duplicate product %q", name))
		}
		seen[name] = true
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewTracer("reading products file").Wrap(err)
	}
	if len(names) != count {
		return nil, errors.NewTracer(fmt.Sprintf("products file declares %d products, found %d", count, len(names)))
	}

	return names, nil
}

func validateName(name string) error {
	if len(name) == 0 || len(name) > maxNameLen {
		return errors.NewTracer(fmt.Sprintf("product name %q must be 1-%d characters", name, maxNameLen))
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return errors.NewTracer(fmt.Sprintf("product name %q must be alphanumeric", name))
		}
	}
	return nil
}
