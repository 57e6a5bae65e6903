package chrome

import (
	"slices"
	"strings"
)

// Element is a node with a class list and an inline style attribute.
type Element struct {
	Classes []string
	Style   string
}

// Page is an in-memory document: a body class list and its elements.
type Page struct {
	BodyClasses []string
	Elements    []*Element
}

func (p *Page) HasBodyClass(class string) bool {
	return slices.Contains(p.BodyClasses, class)
}

// MainContent returns the first element with class "main-content" or a class
// containing "mainContent" (as generated by CSS modules).
func (p *Page) MainContent() *Element {
	for _, el := range p.Elements {
		for _, c := range el.Classes {
			if c == "main-content" || strings.Contains(c, "mainContent") {
				return el
			}
		}
	}
	return nil
}

func (p *Page) SetExamMode(on bool) {
	has := p.HasBodyClass(ExamModeClass)
	switch {
	case on && !has:
		p.BodyClasses = append(p.BodyClasses, ExamModeClass)
	case !on && has:
		p.BodyClasses = slices.DeleteFunc(p.BodyClasses, func(c string) bool { return c == ExamModeClass })
	}
}

func (p *Page) MainStyle() (string, bool) {
	el := p.MainContent()
	if el == nil {
		return "", false
	}
	return el.Style, true
}

func (p *Page) SetMainStyle(style string) {
	if el := p.MainContent(); el != nil {
		el.Style = style
	}
}
