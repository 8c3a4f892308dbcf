package source

import (
	"bufio"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TextLoader handles plain text files. Blank lines separate paragraphs and
// each paragraph becomes a <p>.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename string) (*html.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	doc, body := newDocument(titleFromFilename(filename))
	for _, para := range paragraphs {
		appendTextElement(body, atom.P, para)
	}
	return doc, nil
}
