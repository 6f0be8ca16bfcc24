package library

// builtin are the set texts that ship with the app. A stored novel with the
// same id takes precedence.
var builtin = []Novel{lekkiHeadmaster}

var lekkiHeadmaster = Novel{
	ID:          "lekki-headmaster",
	Title:       "The Lekki Headmaster",
	Author:      "Adaora Lily Ulasi",
	Year:        "2022",
	Genre:       "Fiction",
	Description: "A compelling story set in Nigeria that explores themes of education, leadership, and community transformation.",

	Summary: "\"The Lekki Headmaster\" is a thought-provoking novel that follows the journey of Mr. Adekunle Olatunji, a dedicated educator who becomes the headmaster of a struggling secondary school in the affluent Lekki area of Lagos. The story explores the stark contrasts between wealth and educational values, as Mr. Olatunji navigates the challenges of modern Nigerian education.\n\n" +
		"The novel opens with Mr. Olatunji's appointment to Lekki Grammar School, where he discovers that despite the area's wealth, the school faces numerous problems including poor academic standards, indisciplined students, and parents more concerned with social status than actual learning.\n\n" +
		"Throughout the narrative, we meet various characters including wealthy parents who try to buy their children's success, dedicated teachers struggling against the system, and students caught between their parents' expectations and their own aspirations. The headmaster's traditional approach to education often clashes with modern materialistic values.\n\n" +
		"Key themes include the value of genuine education over superficial achievement, the role of community in shaping young minds, the challenges of maintaining integrity in a corrupt system, and the ultimate triumph of dedication and moral strength.\n\n" +
		"The climax occurs when Mr. Olatunji must choose between accepting bribes to pass failing students or maintaining his principles at the cost of his position. His choice and its consequences form the emotional core of the novel.\n\n" +
		"The story concludes with a transformation of both the school and the community, showing how one person's commitment to values can inspire lasting change.",
	Chapters: []Chapter{
		{Number: 1, Title: "A New Beginning", Summary: "Mr. Adekunle Olatunji arrives at Lekki Grammar School as the new headmaster. He observes the stark contrast between the expensive school buildings and the academic mediocrity within. He meets the staff, including Mrs. Adebayo, the vice principal who has been overlooked for the headmaster position."},
		{Number: 2, Title: "First Impressions", Summary: "The headmaster conducts his first assembly and is shocked by the students' lack of discipline and respect. He introduces new rules that are met with resistance from both students and parents. Chief Akinola, a wealthy parent, immediately clashes with the headmaster over special treatment for his son."},
		{Number: 3, Title: "The Parent-Teacher Meeting", Summary: "A pivotal parent-teacher meeting exposes the deep disconnect between education and values. Parents complain about strict policies while the headmaster presents damning academic statistics. Mrs. Okonkwo, a dedicated parent, supports the headmaster's vision."},
		{Number: 4, Title: "Whispers in the Corridor", Summary: "Rumors spread about the headmaster's incorruptibility. Some teachers reveal secret practices of selling exam answers. The headmaster begins his investigation while forming alliances with honest staff members including Mr. Chukwu, the Mathematics teacher."},
		{Number: 5, Title: "The Examination Crisis", Summary: "During mock examinations, the headmaster discovers a cheating syndicate involving some teachers and wealthy parents. His confrontation with the syndicate leads to threats against his position and family."},
		{Number: 6, Title: "Standing Firm", Summary: "Chief Akinola leads a delegation to the board demanding the headmaster's removal. The headmaster presents evidence of corruption. The board is divided, and a investigation is launched."},
		{Number: 7, Title: "The Students Rise", Summary: "Inspired by the headmaster's integrity, students begin to change. Tunde Akinola, the chief's son, secretly supports the headmaster and helps expose more corruption. A student-led movement for academic integrity emerges."},
		{Number: 8, Title: "The Final Reckoning", Summary: "The investigation concludes with several teachers dismissed and parents banned from the school. Chief Akinola faces public shame when his involvement is revealed. The school community begins healing."},
		{Number: 9, Title: "Transformation", Summary: "One year later, Lekki Grammar School shows remarkable improvement. Academic performance rises, and the school becomes known for integrity. Mr. Olatunji reflects on his journey and the price of maintaining values."},
		{Number: 10, Title: "Legacy", Summary: "The novel concludes with the graduation ceremony where students speak about how the headmaster changed their lives. Chief Akinola, humbled by events, donates a library to the school. The headmaster receives a national education award."},
	},
	Characters: []Character{
		{Name: "Mr. Adekunle Olatunji", Role: "Protagonist - Headmaster", Description: "A principled educator in his fifties who believes in traditional values of hard work and integrity. He comes from a humble background and rose through dedication. His unwavering commitment to genuine education forms the moral center of the novel."},
		{Name: "Chief Akinola", Role: "Antagonist", Description: "A wealthy businessman and parent who represents the corrupting influence of money on education. He attempts to buy success for his son and later tries to destroy the headmaster. His eventual transformation shows the possibility of redemption."},
		{Name: "Mrs. Adebayo", Role: "Vice Principal", Description: "Initially resentful of being overlooked for headmaster, she eventually becomes the headmaster's strongest ally. Her character arc shows growth from bitterness to partnership."},
		{Name: "Tunde Akinola", Role: "Supporting Character", Description: "Chief Akinola's son who secretly admires the headmaster. His courage in opposing his father represents the hope of the younger generation. He bridges the gap between wealth and values."},
		{Name: "Mr. Chukwu", Role: "Mathematics Teacher", Description: "A dedicated teacher who has long fought against corruption alone. He becomes the headmaster's first ally and represents the honest educators in the system."},
		{Name: "Mrs. Okonkwo", Role: "Parent", Description: "A parent who values education over status. She leads the parents who support the headmaster and demonstrates that not all wealthy parents are corrupt."},
	},
	Themes: []Theme{
		{Title: "Education vs. Certification", Description: "The novel explores the difference between genuine learning and merely obtaining certificates. It critiques a system where grades can be bought and questions what education truly means."},
		{Title: "Integrity in Corruption", Description: "Through the headmaster's journey, the novel examines the cost of maintaining integrity in a corrupt environment and whether individual stand can make a difference."},
		{Title: "Wealth and Values", Description: "The Lekki setting allows exploration of how wealth can corrupt values, but also how it can be used for good when combined with moral purpose."},
		{Title: "Generational Change", Description: "The younger characters, especially students, represent hope for change. Their transformation suggests that values can be taught and learned."},
		{Title: "Community and Education", Description: "The novel shows how education is a community responsibility, not just a school's duty. The involvement of parents, teachers, and students determines outcomes."},
		{Title: "Leadership and Sacrifice", Description: "True leadership, as demonstrated by the headmaster, requires sacrifice and the courage to stand alone before others join the cause."},
	},
	Devices: []Device{
		{Name: "Symbolism", Examples: "The school building represents the facade of success without substance. The library donated at the end symbolizes genuine investment in education."},
		{Name: "Irony", Examples: "The wealthy Lekki area produces poor academic results. The chief who sought to destroy the headmaster ends up supporting his vision."},
		{Name: "Contrast", Examples: "Rich parents vs. poor outcomes, old values vs. modern materialism, appearance vs. reality."},
		{Name: "Foreshadowing", Examples: "Early hints of Tunde's conscience suggest his eventual support for the headmaster. The whispers about the headmaster's past foreshadow his strength."},
	},
}
