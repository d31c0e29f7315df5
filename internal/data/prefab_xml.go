package data

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// Legacy prefab documents are XML, one <prefab> per file or several under a
// <prefabs> root:
//
//	<prefab name="ball" visible="true">
//	  <tag name="bouncy"/>
//	  <component type="CircleCollider" name="body">
//	    <property name="radius" value="4"/>
//	  </component>
//	</prefab>

type xmlPrefabList struct {
	Prefabs []xmlPrefab `xml:"prefab"`
}

type xmlPrefab struct {
	Name       string         `xml:"name,attr"`
	Visible    string         `xml:"visible,attr"`
	Tags       []xmlTag       `xml:"tag"`
	Components []xmlComponent `xml:"component"`
}

type xmlTag struct {
	Name string `xml:"name,attr"`
	Text string `xml:",chardata"`
}

type xmlComponent struct {
	Type       string        `xml:"type,attr"`
	Name       string        `xml:"name,attr"`
	Properties []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ParsePrefabXML converts a legacy XML prefab document into prefabs.
// fallback names a prefab whose document omits the name attribute; it is
// ignored for multi-prefab documents.
func ParsePrefabXML(raw []byte, fallback string) ([]Prefab, error) {
	var root struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse prefab xml: %w", err)
	}

	var docs []xmlPrefab
	switch root.XMLName.Local {
	case "prefab":
		var p xmlPrefab
		if err := xml.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parse prefab xml: %w", err)
		}
		if p.Name == "" {
			p.Name = fallback
		}
		docs = append(docs, p)
	case "prefabs":
		var l xmlPrefabList
		if err := xml.Unmarshal(raw, &l); err != nil {
			return nil, fmt.Errorf("parse prefab xml: %w", err)
		}
		docs = l.Prefabs
	default:
		return nil, fmt.Errorf("parse prefab xml: unexpected root <%s>", root.XMLName.Local)
	}

	out := make([]Prefab, 0, len(docs))
	for _, d := range docs {
		p, err := d.convert()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d xmlPrefab) convert() (Prefab, error) {
	if d.Name == "" {
		return Prefab{}, fmt.Errorf("prefab xml: prefab without a name")
	}
	p := Prefab{Name: d.Name}

	if d.Visible != "" {
		v, err := strconv.ParseBool(d.Visible)
		if err != nil {
			return Prefab{}, fmt.Errorf("prefab %s: visible: %w", d.Name, err)
		}
		p.Visible = &v
	}

	for _, t := range d.Tags {
		tag := t.Name
		if tag == "" {
			tag = strings.TrimSpace(t.Text)
		}
		if tag != "" {
			p.Tags = append(p.Tags, tag)
		}
	}

	for _, c := range d.Components {
		if c.Type == "" {
			return Prefab{}, fmt.Errorf("prefab %s: component without a type", d.Name)
		}
		spec := ComponentSpec{Type: c.Type, Name: c.Name}
		if len(c.Properties) > 0 {
			spec.Properties = make(map[string]string, len(c.Properties))
			for _, prop := range c.Properties {
				spec.Properties[prop.Name] = prop.Value
			}
		}
		p.Components = append(p.Components, spec)
	}
	return p, nil
}
