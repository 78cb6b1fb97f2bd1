package blend

// SourceIn shows the source where the destination is opaque.
// Formula: S * Da
func SourceIn(sr, sg, sb, sa, da byte) (r, g, b, a byte) {
	return mulDiv255(sr, da), mulDiv255(sg, da), mulDiv255(sb, da), mulDiv255(sa, da)
}

// SourceOver composites the source over the destination.
// Formula: S + D * (1 - Sa)
func SourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte) {
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// RecolorSpan replaces the color of every pixel in pix with the
// premultiplied color (r, g, b, a) while keeping its coverage. pix holds
// 4 bytes per pixel; a trailing partial pixel is ignored.
//
// This is the source-in color filter: the result is the pen color scaled by
// the existing alpha.
func RecolorSpan(pix []byte, r, g, b, a byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		da := pix[i+3]
		if da == 0 {
			continue
		}
		pix[i+0], pix[i+1], pix[i+2], pix[i+3] = SourceIn(r, g, b, a, da)
	}
}

// OverSpan composites src over dst pixel by pixel. Both slices hold 4
// premultiplied bytes per pixel; the shorter length wins.
func OverSpan(dst, src []byte) {
	n := min(len(dst), len(src))
	for i := 0; i+3 < n; i += 4 {
		sa := src[i+3]
		switch sa {
		case 0:
			continue
		case 255:
			copy(dst[i:i+4], src[i:i+4])
			continue
		}
		dst[i+0], dst[i+1], dst[i+2], dst[i+3] = SourceOver(
			src[i+0], src[i+1], src[i+2], sa,
			dst[i+0], dst[i+1], dst[i+2], dst[i+3],
		)
	}
}
