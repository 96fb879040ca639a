// Package people reads the flat birthday/anniversary files and matches
// records against a civil date. The files are re-read on every request so
// midday edits are picked up without a restart.
package people

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Person is one birthday line. Year is nil when the line omits it.
type Person struct {
	Name  string
	Day   int
	Month int
	Year  *int
}

// Anniversary is one couple line. Year is nil when the line omits it.
type Anniversary struct {
	Names [2]string
	Day   int
	Month int
	Year  *int
}

// Match is an anniversary that falls on the queried date. Years is the
// elapsed count, nil when the record has no usable year.
type Match struct {
	Names [2]string `json:"names"`
	Year  *int      `json:"year"`
	Years *int      `json:"years"`
}

var nameSeparator = regexp.MustCompile(`\s*&\s*|\s*-\s*|\s+and\s+`)

// ParsePersons reads Name:DD/MM[/YYYY] lines. Blank lines, the
// "name:birthday" header and malformed lines are skipped.
func ParsePersons(r io.Reader) []Person {
	var out []Person
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(strings.ToLower(line), "name:birthday") {
			continue
		}
		name, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		day, month, year := parseDate(rest)
		if name == "" || day == 0 || month == 0 {
			continue
		}
		out = append(out, Person{Name: name, Day: day, Month: month, Year: year})
	}
	return out
}

// ParseAnniversaries reads Name1 <&|-|and> Name2:DD/MM[/YYYY] lines.
func ParseAnniversaries(r io.Reader) []Anniversary {
	var out []Anniversary
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(strings.ToLower(line), "names:anniversary") {
			continue
		}
		left, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		parts := nameSeparator.Split(strings.TrimSpace(left), 2)
		if len(parts) < 2 {
			continue
		}
		n1 := strings.TrimSpace(parts[0])
		n2 := strings.TrimSpace(parts[1])
		day, month, year := parseDate(rest)
		if n1 == "" || n2 == "" || day == 0 || month == 0 {
			continue
		}
		out = append(out, Anniversary{Names: [2]string{n1, n2}, Day: day, Month: month, Year: year})
	}
	return out
}

func parseDate(s string) (day, month int, year *int) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 2 {
		return 0, 0, nil
	}
	d, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, nil
	}
	if len(parts) >= 3 {
		if y, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			year = &y
		}
	}
	return d, m, year
}

// LoadPersons parses the birthday file. A missing file is an empty list.
func LoadPersons(path string) ([]Person, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ParsePersons(f), nil
}

// LoadAnniversaries parses the anniversary file. A missing file is an
// empty list.
func LoadAnniversaries(path string) ([]Anniversary, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ParseAnniversaries(f), nil
}

// BirthdaysOn returns the names whose (day, month) match, in source order.
func BirthdaysOn(records []Person, day, month int) []string {
	var names []string
	for _, p := range records {
		if p.Day == day && p.Month == month {
			names = append(names, p.Name)
		}
	}
	return names
}

// AnniversariesOn returns today's anniversary matches in source order.
// Years is computed only for plausible years (after 1900 and not in the
// future relative to the queried year).
func AnniversariesOn(records []Anniversary, day, month, year int) []Match {
	var matches []Match
	for _, a := range records {
		if a.Day != day || a.Month != month {
			continue
		}
		m := Match{Names: a.Names, Year: a.Year}
		if a.Year != nil && *a.Year > 1900 && year >= *a.Year {
			elapsed := year - *a.Year
			m.Years = &elapsed
		}
		matches = append(matches, m)
	}
	return matches
}
