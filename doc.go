// Package kmr provides a pure Go encoder and decoder for the KMR image
// container format.
//
// KMR is a hybrid lossless/near-lossless RGBA codec with no CGo
// dependencies. It decomposes an image into a coarse block-averaged YCrCb
// "nodal" skeleton (delta + run-length + canonical Huffman coded) and a
// per-pixel Paeth-predicted residual image (QOI coded), packed behind a
// fixed 32-byte header.
//
// Basic usage for encoding:
//
//	data, err := kmr.Encode(rgba, w, h, kmr.EncodeParameters{BlockSize: 8, Smooth: true})
//
// Basic usage for decoding:
//
//	res, err := kmr.Decode(data)
//	// res.RGBA holds the reconstructed w*h*4 pixel buffer
package kmr
