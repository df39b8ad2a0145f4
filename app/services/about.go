package services

// AboutPage is the content of a static page.
type AboutPage struct {
	Title  string `json:"title"`
	Header string `json:"header"`
	Text   string `json:"text"`
}

var (
	aboutAuthor = AboutPage{
		Title:  "Об авторе проекта",
		Header: "Привет, я автор",
		Text: "Тут я размещу информацию о себе используя свои умения верстать. " +
			"Картинки, блоки, элементы бустрап. А может быть, просто напишу " +
			"несколько абзацев текста.",
	}
	aboutTech = AboutPage{
		Title:  "Технологии",
		Header: "Вот что я умею",
		Text:   `Текст страницы "Технологии"`,
	}
)

func AboutAuthor() AboutPage {
	return aboutAuthor
}

func AboutTech() AboutPage {
	return aboutTech
}
