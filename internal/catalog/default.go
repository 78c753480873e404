package catalog

// Default returns the built-in catalog shipped with the site.
func Default() *Catalog {
	c, err := New(
		Post{
			ID:   "welcome-to-my-blog",
			Date: MustDate("2024-01-15"),
			Title: Localized(map[string]string{
				"en": "Welcome to My Blog",
				"ru": "Добро пожаловать в мой блог",
			}),
			Excerpt: Localized(map[string]string{
				"en": "This is the first post on my new blog. I'm excited to share my thoughts and ideas with you.",
				"ru": "Это первый пост в моём новом блоге. Я рад поделиться с вами своими мыслями и идеями.",
			}),
		},
		Post{
			ID:   "getting-started-with-github-pages",
			Date: MustDate("2024-01-20"),
			Title: Localized(map[string]string{
				"en": "Getting Started with GitHub Pages",
				"ru": "Начало работы с GitHub Pages",
			}),
			Excerpt: Localized(map[string]string{
				"en": "Learn how to deploy your static website to GitHub Pages in just a few simple steps.",
				"ru": "Узнайте, как развернуть статический сайт на GitHub Pages за несколько простых шагов.",
			}),
		},
		Post{
			ID:   "building-a-simple-blog",
			Date: MustDate("2024-01-25"),
			Title: Localized(map[string]string{
				"en": "Building a Simple Blog",
				"ru": "Создание простого блога",
			}),
			Excerpt: Localized(map[string]string{
				"en": "A guide to creating a clean, modern blog using just HTML, CSS, and vanilla JavaScript.",
				"ru": "Руководство по созданию чистого современного блога на HTML, CSS и чистом JavaScript.",
			}),
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}
