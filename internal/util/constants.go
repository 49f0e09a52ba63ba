package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeVideo       = "video/"
	MimePDF         = "application/pdf"
	MimePNG         = "image/png"
	MimeJPEG        = "image/jpeg"
	MimeOctetStream = "application/octet-stream"
)

// 上传目录前缀
const (
	DirThumbnails   = "thumbnails"
	DirContents     = "contents"
	DirSubmissions  = "submissions"
	DirCertificates = "certificates"
)

var (
	AllowedVideoExtensions     = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
	AllowedThumbnailExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
)
