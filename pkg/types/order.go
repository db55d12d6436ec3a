package types

import "strings"

// PathLess orders absolute paths so that a parent directory always precedes
// the entries inside it, and siblings sort lexicographically. Comparing
// component by component avoids "/a-b" sorting between "/a" and "/a/c".
func PathLess(a, b string) bool {
	as := strings.Split(strings.TrimPrefix(a, "/"), "/")
	bs := strings.Split(strings.TrimPrefix(b, "/"), "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}
