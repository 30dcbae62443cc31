package domain

import "strings"

// ExtReplace replaces the trailing extension oldExt with newExt on a single
// element. Both extensions may be written with or without the leading dot.
// Elements that do not end in oldExt are returned unchanged.
func ExtReplace(elem, oldExt, newExt string) string {
	oldExt = dotted(oldExt)
	newExt = dotted(newExt)
	if oldExt == "" || !strings.HasSuffix(elem, oldExt) {
		return elem
	}
	return elem[:len(elem)-len(oldExt)] + newExt
}

// ExtReplaceList applies ExtReplace to each whitespace-separated element of
// list and rejoins the result with single spaces.
func ExtReplaceList(list, oldExt, newExt string) string {
	elems := strings.Fields(list)
	for i, e := range elems {
		elems[i] = ExtReplace(e, oldExt, newExt)
	}
	return strings.Join(elems, " ")
}

func dotted(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
