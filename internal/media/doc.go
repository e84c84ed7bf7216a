// Package media generates JPEG thumbnails for the videos of a media library.
//
// For every video in a directory a single frame is extracted with ffmpeg,
// scaled to a fixed width and written next to the other thumbnails as
// <name>.jpg. Videos that already have a thumbnail are skipped. Frame
// extraction first seeks one second in and falls back to the first frame,
// which covers clips shorter than a second.
//
// Scaling uses libvips when InitVips has been called, and
// disintegration/imaging otherwise:
//
//	media.InitVips()
//	defer media.ShutdownVips() // once, at process exit
//
//	gen := media.NewThumbnailGenerator(media.ThumbnailOptions{
//	    VideoDir: "Video Files",
//	    ThumbDir: "video_thumbs",
//	    Width:    320,
//	    Quality:  85,
//	}, media.NewFFmpegExtractor("ffmpeg", 30*time.Second))
//	report, err := gen.Run(ctx, nil)
//
// The only check made on ffmpeg's work is that a frame came back and the
// thumbnail file exists afterwards.
package media
