package types

// Songbird property names. The database stores properties by numeric code;
// the names are resolved through the properties code table.
const (
	propertyNS = "http://songbirdnest.com/data/1.0#"

	PropMediaListName = propertyNS + "mediaListName"
	PropCustomType    = propertyNS + "customType"
	PropTrackName     = propertyNS + "trackName"
	PropArtistName    = propertyNS + "artistName"
	PropAlbumName     = propertyNS + "albumName"
	PropAlbumArtist   = propertyNS + "albumArtistName"
	PropGenre         = propertyNS + "genre"
	PropYear          = propertyNS + "year"
	PropTrackNumber   = propertyNS + "trackNumber"
	PropDiscNumber    = propertyNS + "discNumber"
	PropDuration      = propertyNS + "duration" // microseconds
	PropPlayCount     = propertyNS + "playCount"
	PropRating        = propertyNS + "rating"
	PropLastPlayTime  = propertyNS + "lastPlayTime" // epoch milliseconds
	PropContentLength = propertyNS + "contentLength"
	PropHidden        = propertyNS + "hidden"
)

// Media list type names from the media_list_types table.
const (
	ListTypeSimple  = "simple"
	ListTypeDynamic = "dynamic"
)

// CustomTypeSimple is the customType value of user playlists. Internal lists
// carry other values such as "download" or "smart".
const CustomTypeSimple = "simple"

// DynamicListPrefix starts the name of Songbird's smart playlists.
const DynamicListPrefix = "&smart"
