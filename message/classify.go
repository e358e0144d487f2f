package message

// classify flattens the part tree into TextBodies, HTMLBodies and
// Attachments per spec section 4.11 (adapted from RFC 8621 section 4.1.4).
func (m *Message) classify() {
	m.TextBodies, m.HTMLBodies, m.Attachments = nil, nil, nil
	m.walkClassify(m.Root, true, "")
}

// walkClassify visits part idx. isFirst is whether it is the first child of
// its immediate container; containerType is that container's "type/subtype"
// ("" for the root).
func (m *Message) walkClassify(idx int, isFirst bool, containerType string) {
	p := m.Part(idx)
	if p == nil {
		return
	}

	if p.Kind == KindMultipartContainer {
		childContainerType := p.ContentType.Type + "/" + p.ContentType.Subtype
		if childContainerType == "multipart/alternative" {
			m.classifyAlternative(p)
			return
		}
		for i, c := range p.Payload.Children {
			m.walkClassify(c, i == 0, childContainerType)
		}
		return
	}

	mediaType := p.ContentType.Type + "/" + p.ContentType.Subtype
	isMedia := p.ContentType.Type == "image" || p.ContentType.Type == "audio" || p.ContentType.Type == "video"
	_, hasFilename := p.Filename()
	inlineCandidate := !p.IsAttachmentDisposition() &&
		(mediaType == "text/plain" || mediaType == "text/html" || isMedia) &&
		(isFirst || (containerType != "multipart/related" && (isMedia || !hasFilename)))

	if !inlineCandidate {
		m.Attachments = append(m.Attachments, idx)
		return
	}
	switch mediaType {
	case "text/plain":
		m.TextBodies = append(m.TextBodies, idx)
	case "text/html":
		m.HTMLBodies = append(m.HTMLBodies, idx)
	default:
		m.Attachments = append(m.Attachments, idx)
	}
}

// classifyAlternative implements the multipart/alternative rules: text/plain
// children extend TextBodies, text/html children extend HTMLBodies, inline
// media children extend Attachments; once all children are processed, a
// side that produced nothing is mirrored from the side that did, so
// body_text(i)/body_html(i) always have something to show.
func (m *Message) classifyAlternative(p *Part) {
	var textAdded, htmlAdded []int
	for i, c := range p.Payload.Children {
		cp := m.Part(c)
		if cp == nil {
			continue
		}
		if cp.Kind == KindMultipartContainer {
			beforeText, beforeHTML := len(m.TextBodies), len(m.HTMLBodies)
			m.walkClassify(c, i == 0, "multipart/alternative")
			textAdded = append(textAdded, m.TextBodies[beforeText:]...)
			htmlAdded = append(htmlAdded, m.HTMLBodies[beforeHTML:]...)
			continue
		}
		if cp.IsAttachmentDisposition() {
			m.Attachments = append(m.Attachments, c)
			continue
		}
		mediaType := cp.ContentType.Type + "/" + cp.ContentType.Subtype
		switch mediaType {
		case "text/plain":
			m.TextBodies = append(m.TextBodies, c)
			textAdded = append(textAdded, c)
		case "text/html":
			m.HTMLBodies = append(m.HTMLBodies, c)
			htmlAdded = append(htmlAdded, c)
		default:
			m.Attachments = append(m.Attachments, c)
		}
	}

	if len(textAdded) == 0 && len(htmlAdded) > 0 {
		m.TextBodies = append(m.TextBodies, htmlAdded...)
	} else if len(htmlAdded) == 0 && len(textAdded) > 0 {
		m.HTMLBodies = append(m.HTMLBodies, textAdded...)
	}
}
