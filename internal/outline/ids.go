package outline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes the name-based UUIDs minted for nodes without an id.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/thywilljoshua/pdf-mindmap/outline"))

// AssignIDs returns a copy of root in which every node has a unique id.
//
// Missing ids are derived from the node's position and label, so extracting the
// same document twice yields the same ids. Ids that collide with one seen
// earlier in pre-order get a numeric suffix. Labels are trimmed.
func AssignIDs(root Node) Node {
	seen := make(map[string]int)
	var assign func(n Node, path []int) Node
	assign = func(n Node, path []int) Node {
		out := Node{ID: strings.TrimSpace(n.ID), Label: strings.TrimSpace(n.Label)}
		if out.ID == "" {
			out.ID = mintID(path, out.Label)
		}
		if c, dup := seen[out.ID]; dup {
			base := out.ID
			for {
				c++
				candidate := base + "-" + strconv.Itoa(c)
				if _, taken := seen[candidate]; !taken {
					seen[base] = c
					out.ID = candidate
					break
				}
			}
		}
		seen[out.ID] = 1
		if len(n.Children) > 0 {
			out.Children = make([]Node, len(n.Children))
			for i, c := range n.Children {
				out.Children[i] = assign(c, append(append([]int(nil), path...), i))
			}
		}
		return out
	}
	return assign(root, nil)
}

func mintID(path []int, label string) string {
	return uuid.NewSHA1(idNamespace, []byte(pathString(path)+"|"+label)).String()
}

func pathString(path []int) string {
	if len(path) == 0 {
		return "root"
	}
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = fmt.Sprint(p)
	}
	return "root/" + strings.Join(parts, "/")
}
