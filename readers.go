package gobrainz

// Composite shapes (alias, tag, rating, life-span, relationship) are shared
// by many root shapes; each is implemented once here and delegated to by the
// root readers. Every reader recognizes the fields it models, preserves the
// ones it does not, and enforces exactly one required identifying field.

// unwrapList strips the wrapper object XML payloads use for collections
// (<alias-list count="2"><alias/>...</alias-list>) down to its elements.
func unwrapList(v Value, element string) Value {
	if v.Kind == KindObject {
		if inner, ok := v.Object.Get(element); ok {
			return inner
		}
	}
	return v
}

func readAlias(v Value) (Alias, error) {
	var a Alias
	// XML payloads carry the alias name as element text.
	if v.Kind == KindString {
		a.Name = v.Str
		return a, nil
	}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "name", "#text":
			s, err := asString(pv)
			a.Name = s
			return true, err
		case "sort-name":
			return true, optString(pv, &a.SortName)
		case "type":
			return true, optString(pv, &a.Type)
		case "type-id":
			return true, optString(pv, &a.TypeID)
		case "locale":
			return true, optString(pv, &a.Locale)
		case "primary":
			return true, optBool(pv, &a.Primary)
		case "begin", "begin-date":
			return true, optString(pv, &a.Begin)
		case "end", "end-date":
			return true, optString(pv, &a.End)
		case "ended":
			return true, optBool(pv, &a.Ended)
		}
		return false, nil
	}, &a.Unhandled)
	if err != nil {
		return a, err
	}
	return a, requireID("name", a.Name)
}

func readTag(v Value) (Tag, error) {
	var t Tag
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "name":
			s, err := asString(pv)
			t.Name = s
			return true, err
		case "count":
			return true, optInt(pv, &t.Count)
		}
		return false, nil
	}, &t.Unhandled)
	if err != nil {
		return t, err
	}
	return t, requireID("name", t.Name)
}

func readUserTag(v Value) (UserTag, error) {
	var t UserTag
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		if name == "name" {
			s, err := asString(pv)
			t.Name = s
			return true, err
		}
		return false, nil
	}, &t.Unhandled)
	if err != nil {
		return t, err
	}
	return t, requireID("name", t.Name)
}

func readRating(v Value) (Rating, error) {
	var r Rating
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "value", "#text":
			return true, optFloat(pv, &r.Value)
		case "votes-count":
			return true, optInt(pv, &r.VotesCount)
		}
		return false, nil
	}, &r.Unhandled)
	if err != nil {
		return r, err
	}
	if r.Value == nil {
		return r, &ClientError{Type: ErrorTypeDecode, Message: "required field missing", Property: "value"}
	}
	return r, nil
}

func readUserRating(v Value) (UserRating, error) {
	var r UserRating
	// A user rating may arrive as a bare scalar in XML payloads.
	if v.Kind == KindNumber || v.Kind == KindString {
		var f *float64
		if err := optFloat(v, &f); err != nil {
			return r, err
		}
		r.Value = f
		return r, nil
	}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		if name == "value" || name == "#text" {
			return true, optFloat(pv, &r.Value)
		}
		return false, nil
	}, &r.Unhandled)
	if err != nil {
		return r, err
	}
	if r.Value == nil {
		return r, &ClientError{Type: ErrorTypeDecode, Message: "required field missing", Property: "value"}
	}
	return r, nil
}

// readLifeSpan decodes the active period composite. It is the one shape
// without a required field: a life-span may legitimately carry any subset
// of begin/end/ended.
func readLifeSpan(v Value) (LifeSpan, error) {
	var ls LifeSpan
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "begin":
			return true, optString(pv, &ls.Begin)
		case "end":
			return true, optString(pv, &ls.End)
		case "ended":
			return true, optBool(pv, &ls.Ended)
		}
		return false, nil
	}, &ls.Unhandled)
	return ls, err
}

func readRelationship(v Value) (Relationship, error) {
	var r Relationship
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "type":
			s, err := asString(pv)
			r.Type = s
			return true, err
		case "type-id":
			return true, optString(pv, &r.TypeID)
		case "direction":
			return true, optString(pv, &r.Direction)
		case "target-type":
			return true, optString(pv, &r.TargetType)
		case "begin":
			return true, optString(pv, &r.Begin)
		case "end":
			return true, optString(pv, &r.End)
		case "ended":
			return true, optBool(pv, &r.Ended)
		case "attributes":
			attrs, err := decodeStringList(pv)
			r.Attributes = attrs
			return true, err
		}
		return false, nil
	}, &r.Unhandled)
	if err != nil {
		return r, err
	}
	return r, requireID("type", r.Type)
}

func readArtist(v Value) (*Artist, error) {
	a := &Artist{}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "id":
			s, err := asString(pv)
			a.ID = s
			return true, err
		case "name":
			return true, optString(pv, &a.Name)
		case "sort-name":
			return true, optString(pv, &a.SortName)
		case "type":
			// Enum-like field decoded permissively: unrecognized variants
			// are preserved as raw text, never rejected.
			return true, optString(pv, &a.Type)
		case "type-id":
			return true, optString(pv, &a.TypeID)
		case "gender":
			return true, optString(pv, &a.Gender)
		case "country":
			return true, optString(pv, &a.Country)
		case "disambiguation":
			return true, optString(pv, &a.Disambiguation)
		case "life-span":
			ls, err := readLifeSpan(pv)
			if err != nil {
				return true, err
			}
			a.LifeSpan = &ls
			return true, nil
		case "aliases", "alias-list":
			aliases, err := decodeList(unwrapList(pv, "alias"), readAlias)
			a.Aliases = aliases
			return true, err
		case "tags", "tag-list":
			tags, err := decodeList(unwrapList(pv, "tag"), readTag)
			a.Tags = tags
			return true, err
		case "user-tags", "user-tag-list":
			tags, err := decodeList(unwrapList(pv, "user-tag"), readUserTag)
			a.UserTags = tags
			return true, err
		case "rating":
			r, err := readRating(pv)
			if err != nil {
				return true, err
			}
			a.Rating = &r
			return true, nil
		case "user-rating":
			r, err := readUserRating(pv)
			if err != nil {
				return true, err
			}
			a.UserRating = &r
			return true, nil
		case "relations", "relation-list":
			rels, err := decodeList(unwrapList(pv, "relation"), readRelationship)
			a.Relationships = rels
			return true, err
		}
		return false, nil
	}, &a.Unhandled)
	if err != nil {
		return nil, err
	}
	if err := requireID("id", a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func readRelease(v Value) (*Release, error) {
	r := &Release{}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "id":
			s, err := asString(pv)
			r.ID = s
			return true, err
		case "title":
			return true, optString(pv, &r.Title)
		case "status":
			return true, optString(pv, &r.Status)
		case "quality":
			return true, optString(pv, &r.Quality)
		case "date":
			return true, optString(pv, &r.Date)
		case "country":
			return true, optString(pv, &r.Country)
		case "barcode":
			return true, optString(pv, &r.Barcode)
		case "disambiguation":
			return true, optString(pv, &r.Disambiguation)
		case "aliases", "alias-list":
			aliases, err := decodeList(unwrapList(pv, "alias"), readAlias)
			r.Aliases = aliases
			return true, err
		case "tags", "tag-list":
			tags, err := decodeList(unwrapList(pv, "tag"), readTag)
			r.Tags = tags
			return true, err
		case "user-tags", "user-tag-list":
			tags, err := decodeList(unwrapList(pv, "user-tag"), readUserTag)
			r.UserTags = tags
			return true, err
		case "rating":
			rt, err := readRating(pv)
			if err != nil {
				return true, err
			}
			r.Rating = &rt
			return true, nil
		case "user-rating":
			rt, err := readUserRating(pv)
			if err != nil {
				return true, err
			}
			r.UserRating = &rt
			return true, nil
		case "relations", "relation-list":
			rels, err := decodeList(unwrapList(pv, "relation"), readRelationship)
			r.Relationships = rels
			return true, err
		}
		return false, nil
	}, &r.Unhandled)
	if err != nil {
		return nil, err
	}
	if err := requireID("id", r.ID); err != nil {
		return nil, err
	}
	return r, nil
}

func readWork(v Value) (*Work, error) {
	w := &Work{}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		switch name {
		case "id":
			s, err := asString(pv)
			w.ID = s
			return true, err
		case "title":
			return true, optString(pv, &w.Title)
		case "type":
			return true, optString(pv, &w.Type)
		case "language":
			return true, optString(pv, &w.Language)
		case "iswcs", "iswc-list":
			iswcs, err := decodeStringList(unwrapList(pv, "iswc"))
			w.ISWCs = iswcs
			return true, err
		case "disambiguation":
			return true, optString(pv, &w.Disambiguation)
		case "aliases", "alias-list":
			aliases, err := decodeList(unwrapList(pv, "alias"), readAlias)
			w.Aliases = aliases
			return true, err
		case "tags", "tag-list":
			tags, err := decodeList(unwrapList(pv, "tag"), readTag)
			w.Tags = tags
			return true, err
		case "user-tags", "user-tag-list":
			tags, err := decodeList(unwrapList(pv, "user-tag"), readUserTag)
			w.UserTags = tags
			return true, err
		case "rating":
			rt, err := readRating(pv)
			if err != nil {
				return true, err
			}
			w.Rating = &rt
			return true, nil
		case "user-rating":
			rt, err := readUserRating(pv)
			if err != nil {
				return true, err
			}
			w.UserRating = &rt
			return true, nil
		case "relations", "relation-list":
			rels, err := decodeList(unwrapList(pv, "relation"), readRelationship)
			w.Relationships = rels
			return true, err
		}
		return false, nil
	}, &w.Unhandled)
	if err != nil {
		return nil, err
	}
	if err := requireID("id", w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

// readPageInfo recognizes the count/offset pair of a list payload, including
// the kind-prefixed spellings browse endpoints use. It reports whether the
// property was consumed.
func readPageInfo(kind, name string, pv Value, p *PageInfo) (bool, error) {
	switch name {
	case "count", kind + "-count":
		return true, optInt(pv, &p.Count)
	case "offset", kind + "-offset":
		return true, optInt(pv, &p.Offset)
	}
	return false, nil
}

func readArtistList(v Value) (*ArtistList, error) {
	l := &ArtistList{}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		if handled, err := readPageInfo(KindArtist, name, pv, &l.PageInfo); handled || err != nil {
			return handled, err
		}
		if name == "artists" || name == "artist" {
			artists, err := decodeList(pv, func(ev Value) (Artist, error) {
				a, err := readArtist(ev)
				if err != nil {
					return Artist{}, err
				}
				return *a, nil
			})
			l.Artists = artists
			return true, err
		}
		return false, nil
	}, &l.Unhandled)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func readReleaseList(v Value) (*ReleaseList, error) {
	l := &ReleaseList{}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		if handled, err := readPageInfo(KindRelease, name, pv, &l.PageInfo); handled || err != nil {
			return handled, err
		}
		if name == "releases" || name == "release" {
			releases, err := decodeList(pv, func(ev Value) (Release, error) {
				r, err := readRelease(ev)
				if err != nil {
					return Release{}, err
				}
				return *r, nil
			})
			l.Releases = releases
			return true, err
		}
		return false, nil
	}, &l.Unhandled)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func readWorkList(v Value) (*WorkList, error) {
	l := &WorkList{}
	err := walkObject(v, func(name string, pv Value) (bool, error) {
		if handled, err := readPageInfo(KindWork, name, pv, &l.PageInfo); handled || err != nil {
			return handled, err
		}
		if name == "works" || name == "work" {
			works, err := decodeList(pv, func(ev Value) (Work, error) {
				w, err := readWork(ev)
				if err != nil {
					return Work{}, err
				}
				return *w, nil
			})
			l.Works = works
			return true, err
		}
		return false, nil
	}, &l.Unhandled)
	if err != nil {
		return nil, err
	}
	return l, nil
}
