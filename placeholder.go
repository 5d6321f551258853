package pptdom

import (
	"fmt"
	"strconv"
)

// PlaceholderRole is the declared type of a placeholder.
type PlaceholderRole int

const (
	// RoleNone means the placeholder omitted its type attribute. It acts as
	// a wildcard when matching.
	RoleNone PlaceholderRole = iota
	RoleTitle
	RoleCenteredTitle
	RoleSubTitle
	RoleBody
	RoleContent
	RoleDateAndTime
	RoleSlideNumber
	RoleFooter
	RolePicture
	RoleTable
	RoleChart
	RoleSmartArt
	RoleOnlineImage
	RoleMedia
	RoleCustom
)

// PlaceholderType is the raw value of p:ph/@type.
type PlaceholderType string

const (
	PlaceholderTitle      PlaceholderType = "title"
	PlaceholderBody       PlaceholderType = "body"
	PlaceholderCtrTitle   PlaceholderType = "ctrTitle"
	PlaceholderSubTitle   PlaceholderType = "subTitle"
	PlaceholderObject     PlaceholderType = "obj"
	PlaceholderDate       PlaceholderType = "dt"
	PlaceholderFooter     PlaceholderType = "ftr"
	PlaceholderSlideNum   PlaceholderType = "sldNum"
	PlaceholderPicture    PlaceholderType = "pic"
	PlaceholderTable      PlaceholderType = "tbl"
	PlaceholderChart      PlaceholderType = "chart"
	PlaceholderDiagram    PlaceholderType = "dgm"
	PlaceholderClipArt    PlaceholderType = "clipArt"
	PlaceholderMedia      PlaceholderType = "media"
	PlaceholderHeader     PlaceholderType = "hdr"
	PlaceholderSlideImage PlaceholderType = "sldImg"
)

var roleByType = map[PlaceholderType]PlaceholderRole{
	PlaceholderTitle:    RoleTitle,
	PlaceholderCtrTitle: RoleCenteredTitle,
	PlaceholderSubTitle: RoleSubTitle,
	PlaceholderBody:     RoleBody,
	PlaceholderObject:   RoleContent,
	PlaceholderDate:     RoleDateAndTime,
	PlaceholderSlideNum: RoleSlideNumber,
	PlaceholderFooter:   RoleFooter,
	PlaceholderPicture:  RolePicture,
	PlaceholderTable:    RoleTable,
	PlaceholderChart:    RoleChart,
	PlaceholderDiagram:  RoleSmartArt,
	PlaceholderClipArt:  RoleOnlineImage,
	PlaceholderMedia:    RoleMedia,
}

var roleNames = [...]string{
	RoleNone:          "None",
	RoleTitle:         "Title",
	RoleCenteredTitle: "CenteredTitle",
	RoleSubTitle:      "SubTitle",
	RoleBody:          "Body",
	RoleContent:       "Content",
	RoleDateAndTime:   "DateAndTime",
	RoleSlideNumber:   "SlideNumber",
	RoleFooter:        "Footer",
	RolePicture:       "Picture",
	RoleTable:         "Table",
	RoleChart:         "Chart",
	RoleSmartArt:      "SmartArt",
	RoleOnlineImage:   "OnlineImage",
	RoleMedia:         "Media",
	RoleCustom:        "Custom",
}

func (r PlaceholderRole) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("PlaceholderRole(%d)", int(r))
}

// RoleOf maps a p:ph/@type value to its role. Unknown types are Custom and
// the empty string is None.
func RoleOf(t PlaceholderType) PlaceholderRole {
	if t == "" {
		return RoleNone
	}
	if r, ok := roleByType[t]; ok {
		return r
	}
	return RoleCustom
}

// inheritFromFirstIndex is written by some producers to mean "use the
// master's first body placeholder".
const inheritFromFirstIndex = 4294967295

// PlaceholderIdentity is the role and optional index of a placeholder.
type PlaceholderIdentity struct {
	Role     PlaceholderRole
	Index    uint32
	HasIndex bool
}

func (id PlaceholderIdentity) String() string {
	if id.HasIndex {
		return id.Role.String() + "#" + strconv.FormatUint(uint64(id.Index), 10)
	}
	return id.Role.String()
}

func (id PlaceholderIdentity) sameIndex(other PlaceholderIdentity) bool {
	return id.HasIndex && other.HasIndex && id.Index == other.Index
}

// matchRule is one predicate of the matcher, applied to (source, candidate).
type matchRule struct {
	name string
	ok   func(src, cand PlaceholderIdentity) bool
}

// matchRules are evaluated in order; each is a full document-order pass
// over the candidates before the next rule is tried.
var matchRules = []matchRule{
	{"index", func(src, cand PlaceholderIdentity) bool {
		return src.sameIndex(cand)
	}},
	{"body index", func(src, cand PlaceholderIdentity) bool {
		return src.Role == RoleBody && src.sameIndex(cand)
	}},
	{"title", func(src, cand PlaceholderIdentity) bool {
		return src.Role == RoleTitle && cand.Role == RoleTitle
	}},
	{"centered title", func(src, cand PlaceholderIdentity) bool {
		return src.Role == RoleCenteredTitle && (cand.Role == RoleCenteredTitle || cand.Role == RoleTitle)
	}},
	{"untyped", func(src, cand PlaceholderIdentity) bool {
		return src.Role == RoleNone || cand.Role == RoleNone
	}},
}

// MatchPlaceholder returns the candidate that src inherits from, or nil.
// level is the level the candidates live on; at the master level the
// inherit-from-first index selects the master placeholder with index 1.
// Candidates without a placeholder identity are ignored.
func MatchPlaceholder(src PlaceholderIdentity, candidates []*Shape, level ReferenceLevel) *Shape {
	type candidate struct {
		shape *Shape
		id    PlaceholderIdentity
	}
	var cands []candidate
	for _, s := range candidates {
		if id, ok := s.Placeholder(); ok {
			cands = append(cands, candidate{s, id})
		}
	}

	if level == LevelMaster && src.HasIndex && src.Index == inheritFromFirstIndex {
		for _, c := range cands {
			if c.id.HasIndex && c.id.Index == 1 {
				log.Debugf("placeholder %s matched %q by inherit-from-first index", src, c.shape.Name())
				return c.shape
			}
		}
	}

	for _, rule := range matchRules {
		for _, c := range cands {
			if rule.ok(src, c.id) {
				log.Debugf("placeholder %s matched %q on %s by %s rule", src, c.shape.Name(), level, rule.name)
				return c.shape
			}
		}
	}

	for _, c := range cands {
		if c.id.Role == src.Role {
			log.Debugf("placeholder %s matched %q on %s by type", src, c.shape.Name(), level)
			return c.shape
		}
	}
	return nil
}
