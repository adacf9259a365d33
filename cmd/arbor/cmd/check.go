package cmd

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate scene files",
		Long: `Validate one or more scene files without laying them out.

A scene passes when every element names a registered kind, sibling keys
are unique and comparable, and enumerated props (alignments, fits, main
axis size) hold accepted values.`,
		Usage: "arbor check <scene>...",
		Run:   runCheck,
	})
}

// propIssue is an enumerated prop with an unknown value. Layout treats the
// value as the default; check reports it.
type propIssue struct {
	Path  string
	Prop  string
	Value any
}

func (p propIssue) String() string {
	return fmt.Sprintf("%s: %s has unknown value %v", p.Path, p.Prop, p.Value)
}

func runCheck(s *Session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("check requires at least one scene file")
	}

	kinds := widgets.New()
	failed := 0
	for _, path := range args {
		if strings.HasPrefix(path, "-") {
			return fmt.Errorf("unknown flag: %s", path)
		}
		_, root, err := loadScene(kinds.Registry, path)
		if err != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL  %s\n      %v\n", path, err)
			s.Logger.Debug().Err(err).Str("scene", path).Msg("check failed")
			continue
		}

		issues := checkProps(kinds.Registry, root)
		if len(issues) > 0 {
			failed++
			fmt.Fprintf(stdout, "FAIL  %s\n", path)
			for _, issue := range issues {
				fmt.Fprintf(stdout, "      %s\n", issue)
			}
			continue
		}
		fmt.Fprintf(stdout, "ok    %s (%d nodes)\n", path, countNodes(root))
	}

	if failed > 0 {
		return stderrors.New(pluralize(failed, "scene") + " failed validation")
	}
	return nil
}

// checkProps walks the configuration tree and collects every node whose
// enumerated props do not parse.
func checkProps(reg *core.Registry, root *core.Node) []propIssue {
	var issues []propIssue
	var visit func(n *core.Node, path string)
	visit = func(n *core.Node, path string) {
		if prop, ok := widgets.ValidateProps(n); !ok {
			issues = append(issues, propIssue{Path: path, Prop: prop, Value: n.Props[prop]})
		}
		for i, child := range n.Children {
			if child != nil {
				visit(child, path+"/"+reg.Name(child.Kind)+"["+strconv.Itoa(i)+"]")
			}
		}
	}
	visit(root, reg.Name(root.Kind))
	return issues
}

func countNodes(n *core.Node) int {
	count := 1
	for _, child := range n.Children {
		if child != nil {
			count += countNodes(child)
		}
	}
	return count
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
