package style

var defaultStyles = []ArtStyle{
	{ID: "van-gogh", Name: "Van Gogh", PromptSuffix: "in the style of Van Gogh, thick impasto oil painting, starry night colors"},
	{ID: "furry", Name: "Furry", PromptSuffix: "as a furry art style character, vibrant, expressive, anthropomorphic"},
	{ID: "portrait", Name: "Portrait", PromptSuffix: "as a highly detailed artistic portrait painting, realistic textures"},
	{ID: "cartoon", Name: "Cartoon", PromptSuffix: "as a vibrant 2D cartoon drawing, clean lines, bold colors"},
	{ID: "crayon", Name: "Crayon", PromptSuffix: "as a children's crayon drawing, textured, bright colors, hand-drawn feel"},
	{ID: "pixel-art", Name: "Pixel Art", PromptSuffix: "as detailed pixel art, retro video game style, 8-bit aesthetic"},
	{ID: "cyberpunk", Name: "Cyberpunk", PromptSuffix: "as a cyberpunk art style illustration, neon lights, futuristic city, dark atmosphere"},
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultStyles)
	if err != nil {
		panic(err)
	}
	return c
}
