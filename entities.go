package gobrainz

// Entity kind tags accepted by Lookup, Browse and Search.
const (
	KindArtist  = "artist"
	KindRelease = "release"
	KindWork    = "work"
)

// Alias is an alternative name attached to an entity.
type Alias struct {
	Name      string
	SortName  *string
	Type      *string
	TypeID    *string
	Locale    *string
	Primary   *bool
	Begin     *string
	End       *string
	Ended     *bool
	Unhandled UnhandledProperties
}

// Tag is a folksonomy tag with its vote count.
type Tag struct {
	Name      string
	Count     *int
	Unhandled UnhandledProperties
}

// UserTag is a tag applied by the authenticated user.
type UserTag struct {
	Name      string
	Unhandled UnhandledProperties
}

// Rating is the community rating of an entity.
type Rating struct {
	Value      *float64
	VotesCount *int
	Unhandled  UnhandledProperties
}

// UserRating is the authenticated user's rating of an entity.
type UserRating struct {
	Value     *float64
	Unhandled UnhandledProperties
}

// LifeSpan describes the active period of an entity. All fields are
// optional: an omitted date is distinguishable from an empty one.
type LifeSpan struct {
	Begin     *string
	End       *string
	Ended     *bool
	Unhandled UnhandledProperties
}

// Relationship links an entity to another entity.
type Relationship struct {
	Type       string
	TypeID     *string
	Direction  *string
	TargetType *string
	Begin      *string
	End        *string
	Ended      *bool
	Attributes []string
	Unhandled  UnhandledProperties
}

// Artist is an individual, group or other music-making participant.
type Artist struct {
	ID             string
	Name           *string
	SortName       *string
	Type           *string
	TypeID         *string
	Gender         *string
	Country        *string
	Disambiguation *string
	LifeSpan       *LifeSpan
	Aliases        []Alias
	Tags           []Tag
	UserTags       []UserTag
	Rating         *Rating
	UserRating     *UserRating
	Relationships  []Relationship
	Unhandled      UnhandledProperties
}

// Release is a real-world product such as an album issue.
type Release struct {
	ID             string
	Title          *string
	Status         *string
	Quality        *string
	Date           *string
	Country        *string
	Barcode        *string
	Disambiguation *string
	Aliases        []Alias
	Tags           []Tag
	UserTags       []UserTag
	Rating         *Rating
	UserRating     *UserRating
	Relationships  []Relationship
	Unhandled      UnhandledProperties
}

// Work is a distinct intellectual or artistic creation (a song, a symphony).
type Work struct {
	ID             string
	Title          *string
	Type           *string
	Language       *string
	ISWCs          []string
	Disambiguation *string
	Aliases        []Alias
	Tags           []Tag
	UserTags       []UserTag
	Rating         *Rating
	UserRating     *UserRating
	Relationships  []Relationship
	Unhandled      UnhandledProperties
}

// PageInfo carries the count/offset pair of a paginated list response.
// Both fields are absent when the service returned a complete result.
type PageInfo struct {
	Count  *int
	Offset *int
}

// Complete reports whether the list is a complete, unpaginated result,
// i.e. the service sent no count/offset pair.
func (p PageInfo) Complete() bool {
	return p.Count == nil && p.Offset == nil
}

// ArtistList is the result of a browse or search over artists.
type ArtistList struct {
	Artists   []Artist
	PageInfo
	Unhandled UnhandledProperties
}

// ReleaseList is the result of a browse or search over releases.
type ReleaseList struct {
	Releases  []Release
	PageInfo
	Unhandled UnhandledProperties
}

// WorkList is the result of a browse or search over works.
type WorkList struct {
	Works     []Work
	PageInfo
	Unhandled UnhandledProperties
}
