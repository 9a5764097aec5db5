package isodump

// Protection scheme boxes, common encryption and the PIFF UUID family.

func renderSinf(tr *trace, b *Box) {
	openBox(tr, b, "ProtectionInfoBox")
	tr.end()
	p := body[SinfBody](b)
	if b.Size > 0 {
		dumpExpected(tr, p.Frma, TypeFrma)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Schm, TypeSchm)
	}
	if b.Size > 0 {
		dumpExpected(tr, p.Schi, TypeSchi)
	}
	closeBox(tr, b, "ProtectionInfoBox")
}

func renderFrma(tr *trace, b *Box) {
	openBox(tr, b, "OriginalFormatBox")
	tr.attrf("data_format", "%s", body[FrmaBody](b).DataFormat)
	tr.end()
	closeBox(tr, b, "OriginalFormatBox")
}

func renderSchm(tr *trace, b *Box) {
	openBox(tr, b, "SchemeTypeBox")
	fullBoxAttrs(tr, b)
	p := body[SchmBody](b)
	tr.attrf("scheme_type", "%s", p.SchemeType)
	tr.attrf("scheme_version", "%d", p.SchemeVersion)
	if p.SchemeURI != "" {
		tr.attr("scheme_uri", p.SchemeURI)
	}
	tr.end()
	closeBox(tr, b, "SchemeTypeBox")
}

func renderSchi(tr *trace, b *Box) {
	openBox(tr, b, "SchemeInformationBox")
	tr.end()
	dumpOptional(tr, body[SchiBody](b).Tenc)
	closeBox(tr, b, "SchemeInformationBox")
}

func renderPssh(tr *trace, b *Box) {
	openBox(tr, b, "ProtectionSystemHeaderBox")
	fullBoxAttrs(tr, b)
	p := body[PsshBody](b)
	tr.attrHex("SystemID", p.SystemID[:])
	tr.end()
	for _, kid := range p.KIDs {
		tr.writeByte(' ')
		tr.start("PSSHKey")
		tr.attrHex("KID", kid[:])
		tr.selfEnd()
	}
	if len(p.Data) > 0 {
		tr.writeByte(' ')
		tr.start("PSSHData")
		tr.attrf("size", "%d", len(p.Data))
		tr.attrHex("value", p.Data)
		tr.selfEnd()
	}
	if b.Size == 0 {
		tr.writeByte(' ')
		tr.start("PSSHKey")
		tr.attr("KID", "")
		tr.selfEnd()
		tr.writeByte(' ')
		tr.start("PSSHData")
		tr.attr("size", "")
		tr.attr("value", "")
		tr.selfEnd()
	}
	closeBox(tr, b, "ProtectionSystemHeaderBox")
}

func renderTenc(tr *trace, b *Box) {
	openBox(tr, b, "TrackEncryptionBox")
	fullBoxAttrs(tr, b)
	p := body[TencBody](b)
	tr.attrf("isEncrypted", "%d", p.IsProtected)
	if p.PerSampleIVSize != 0 {
		tr.attrf("IV_size", "%d", p.PerSampleIVSize)
		tr.attrHex("KID", p.KID[:])
	} else {
		tr.attrf("constant_IV_size", "%d", p.ConstantIVSize)
		tr.attrHex("constant_IV", p.ConstantIV)
		tr.attrHex("KID", p.KID[:])
	}
	if b.Version > 0 {
		tr.attrf("crypt_byte_block", "%d", p.CryptByteBlock)
		tr.attrf("skip_byte_block", "%d", p.SkipByteBlock)
	}
	tr.end()
	closeBox(tr, b, "TrackEncryptionBox")
}

func renderSenc(tr *trace, b *Box) {
	openBox(tr, b, "SampleEncryptionBox")
	p := body[SencBody](b)
	tr.attrf("sampleCount", "%d", len(p.Samples))
	tr.end()
	// senc shares its layout with the PIFF psec UUID box, so version and
	// flags are reported as a child element rather than attributes.
	tr.start("FullBoxInfo")
	tr.attrf("Version", "%d", b.Version)
	tr.attrf("Flags", "0x%X", b.Flags)
	tr.selfEnd()
	for i, s := range p.Samples {
		tr.start("SampleEncryptionEntry")
		tr.attrf("sampleCount", "%d", i+1)
		tr.attrHex("IV", s.IV[:])
		if b.Flags&2 != 0 {
			tr.attrf("SubsampleCount", "%d", len(s.Subsamples))
			tr.end()
			for _, sub := range s.Subsamples {
				tr.start("SubSampleEncryptionEntry")
				tr.attrf("NumClearBytes", "%d", sub.ClearBytes)
				tr.attrf("NumEncryptedBytes", "%d", sub.EncryptedBytes)
				tr.selfEnd()
			}
		} else {
			tr.end()
		}
		tr.closeTag("SampleEncryptionEntry")
	}
	if b.Size == 0 {
		tr.start("SampleEncryptionEntry")
		tr.attr("sampleCount", "")
		tr.attr("IV", "")
		tr.attr("SubsampleCount", "")
		tr.end()
		tr.start("SubSampleEncryptionEntry")
		tr.attr("NumClearBytes", "")
		tr.attr("NumEncryptedBytes", "")
		tr.selfEnd()
		tr.closeTag("SampleEncryptionEntry")
	}
	closeBox(tr, b, "SampleEncryptionBox")
}

func renderPiffTenc(tr *trace, b *Box) {
	openBox(tr, b, "PIFFTrackEncryptionBox")
	fullBoxAttrs(tr, b)
	p := body[PiffTencBody](b)
	tr.attrf("AlgorithmID", "%d", p.AlgorithmID)
	tr.attrf("IV_size", "%d", p.IVSize)
	tr.attrHex("KID", p.KID[:])
	tr.end()
	closeBox(tr, b, "PIFFTrackEncryptionBox")
}

func renderPiffPsec(tr *trace, b *Box) {
	openBox(tr, b, "PIFFSampleEncryptionBox")
	p := body[PiffPsecBody](b)
	tr.attrf("sampleCount", "%d", len(p.Samples))
	if b.Flags&1 != 0 {
		tr.attrf("AlgorithmID", "%d", p.AlgorithmID)
		tr.attrf("IV_size", "%d", p.IVSize)
		tr.attrData("KID", p.KID[:])
	}
	tr.end()
	for _, s := range p.Samples {
		// entries with an all-zero leading IV byte are considered unset
		if s.IV[0] == 0 {
			continue
		}
		tr.start("PIFFSampleEncryptionEntry")
		tr.attrHex("IV", s.IV[:])
		if b.Flags&2 != 0 {
			tr.attrf("SubsampleCount", "%d", len(s.Subsamples))
			tr.end()
			for _, sub := range s.Subsamples {
				tr.start("PIFFSubSampleEncryptionEntry")
				tr.attrf("NumClearBytes", "%d", sub.ClearBytes)
				tr.attrf("NumEncryptedBytes", "%d", sub.EncryptedBytes)
				tr.selfEnd()
			}
			tr.closeTag("PIFFSampleEncryptionEntry")
		} else {
			tr.selfEnd()
		}
	}
	if b.Size == 0 {
		tr.start("PIFFSampleEncryptionEntry")
		tr.attr("IV", "")
		tr.attr("SubsampleCount", "")
		tr.end()
		tr.start("PIFFSubSampleEncryptionEntry")
		tr.attr("NumClearBytes", "")
		tr.attr("NumEncryptedBytes", "")
		tr.selfEnd()
		tr.closeTag("PIFFSampleEncryptionEntry")
	}
	closeBox(tr, b, "PIFFSampleEncryptionBox")
}

func renderPiffPssh(tr *trace, b *Box) {
	openBox(tr, b, "PIFFProtectionSystemHeaderBox")
	fullBoxAttrs(tr, b)
	p := body[PiffPsshBody](b)
	tr.attrHex("SystemID", p.SystemID[:])
	tr.attrHex("PrivateData", p.Data)
	tr.end()
	closeBox(tr, b, "PIFFProtectionSystemHeaderBox")
}

func renderTfxd(tr *trace, b *Box) {
	openBox(tr, b, "MSSTimeExtensionBox")
	p := body[TfxdBody](b)
	tr.attrf("AbsoluteTime", "%d", p.AbsoluteTime)
	tr.attrf("FragmentDuration", "%d", p.Duration)
	tr.end()
	tr.start("FullBoxInfo")
	tr.attrf("Version", "%d", b.Version)
	tr.attrf("Flags", "%d", b.Flags)
	tr.selfEnd()
	closeBox(tr, b, "MSSTimeExtensionBox")
}
