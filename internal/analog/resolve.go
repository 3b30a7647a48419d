package analog

import "strings"

// URLGroup is the group of choices synthesized from a path the server does not know.
const URLGroup = "Specified via URL"

// Resolution is the outcome of matching server choices against the current path.
type Resolution struct {
	Choices  []Choice
	Selected *Choice
	// Path is the value to write back to the path store; empty when it must stay as is.
	Path string
}

// Resolve picks the choice to watch. A path supplied by the user wins: it selects the
// matching known choice or, when the server does not know it, a synthesized one that is
// appended to the list. Without a path the server's pre-selected choice is used and its
// path is reported back for the path store.
func Resolve(choices []Choice, path string) Resolution {
	res := Resolution{Choices: append([]Choice(nil), choices...)}

	proposed := RemoveLeadingSlash(strings.TrimSpace(path))
	if proposed != "" {
		for i := range res.Choices {
			if PathsEqual(res.Choices[i].Path, proposed) || PathsEqual(res.Choices[i].ID(), proposed) {
				res.Selected = &res.Choices[i]
				return res
			}
		}
		res.Choices = append(res.Choices, Choice{
			Group: URLGroup,
			Title: FileName(proposed),
			Path:  proposed,
		})
		res.Selected = &res.Choices[len(res.Choices)-1]
		return res
	}

	for i := range res.Choices {
		if res.Choices[i].Selected {
			res.Selected = &res.Choices[i]
			res.Path = AddLeadingSlash(res.Choices[i].Path)
			break
		}
	}
	return res
}
