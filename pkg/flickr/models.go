package flickr

// Envelope is the response wrapper every Flickr REST call returns.
// Stat is "ok" on success; on "fail" Code and Message describe the error.
type Envelope struct {
	Stat    string `json:"stat"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Photo is a single photostream record as returned by flickr.photos.search.
// MachineTags is only populated when the search requests the machine_tags
// extra. Fields beyond ID, Owner and MachineTags are opaque passthrough.
type Photo struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Secret      string `json:"secret"`
	Server      string `json:"server"`
	Title       string `json:"title"`
	MachineTags string `json:"machine_tags"`
	DateUpload  string `json:"dateupload,omitempty"`
	IsPublic    int    `json:"ispublic"`
}

// PhotoPage is one page of search results plus the pagination counters
// the enumerator drives on.
type PhotoPage struct {
	Page    int     `json:"page"`
	Pages   int     `json:"pages"`
	PerPage int     `json:"perpage"`
	Total   int     `json:"total"`
	Photos  []Photo `json:"photo"`
}

// SearchResponse is the full flickr.photos.search payload.
type SearchResponse struct {
	Envelope
	Photos PhotoPage `json:"photos"`
}

// ExifTag is one entry of a photo's EXIF listing. Tag holds the raw EXIF
// key ("Model"), Label the human-friendly name; Raw carries the value.
type ExifTag struct {
	TagSpace string  `json:"tagspace"`
	Tag      string  `json:"tag"`
	Label    string  `json:"label"`
	Raw      Content `json:"raw"`
}

// Content is Flickr's `{"_content": "..."}` wrapper for string values.
type Content struct {
	Content string `json:"_content"`
}

// ExifResponse is the full flickr.photos.getExif payload.
type ExifResponse struct {
	Envelope
	Photo struct {
		ID     string    `json:"id"`
		Camera string    `json:"camera"`
		Exif   []ExifTag `json:"exif"`
	} `json:"photo"`
}

// PhotosetResponse is the flickr.photosets.create payload.
type PhotosetResponse struct {
	Envelope
	Photoset struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"photoset"`
}
