package seed

// SamplePost is one seeded post
type SamplePost struct {
	Title     string
	Body      string
	ViewCount int64
}

var SamplePosts = []SamplePost{
	{
		Title: "The Future of Artificial Intelligence in 2024",
		Body: `Artificial intelligence continues to transform industries at an unprecedented pace. From machine learning algorithms to natural language processing, AI is changing how we work and live.

In this overview we explore the latest trends in AI development, including the rise of generative models, ethical considerations, and practical applications across sectors.

Key points covered:
- Current state of AI technology
- Ethical implications and challenges
- Future predictions and developments
- How businesses can use AI effectively`,
		ViewCount: 1250,
	},
	{
		Title: "Sustainable Living: Practical Tips for Everyday Life",
		Body: `Adopting a sustainable lifestyle does not have to be complicated or expensive. In this guide we share practical tips that anyone can apply to reduce their environmental footprint.

From small changes in daily habits to bigger adjustments, discover how you can contribute to a healthier planet while often saving money in the process.

Topics include:
- Reducing plastic waste
- Energy conservation at home
- Sustainable food choices
- Eco-friendly transportation options`,
		ViewCount: 890,
	},
	{
		Title: "Building Web Backends: Best Practices",
		Body: `A well structured backend keeps a web application easy to change as it grows. Clear package boundaries, explicit dependencies and a small set of shared conventions go a long way.

This post covers practices every backend developer should know, from project layout and configuration to deployment.

We discuss:
- Project organization patterns
- Security best practices
- Performance optimization
- Deployment strategies
- Testing methodologies`,
		ViewCount: 2100,
	},
	{
		Title: "Healthy Eating on a Busy Schedule",
		Body: `Maintaining a healthy diet can be hard when you are constantly on the go. This guide gives time-saving strategies and meal prep ideas that make healthy eating achievable even with the busiest schedule.

Learn how to:
- Plan meals efficiently
- Prepare healthy snacks
- Make quick nutritious meals
- Stay consistent with your goals`,
		ViewCount: 760,
	},
	{
		Title: "Top Travel Destinations for Digital Nomads",
		Body: `The rise of remote work has created new opportunities for location-independent professionals. Discover the best cities for digital nomads, weighing cost of living, internet connectivity and community.

Featured destinations include:
- Bali, Indonesia
- Lisbon, Portugal
- Medellin, Colombia
- Chiang Mai, Thailand
- Mexico City, Mexico`,
		ViewCount: 1540,
	},
	{
		Title: "Machine Learning Fundamentals for Beginners",
		Body: `Machine learning can seem intimidating, but the basics are more accessible than you might think. This introduction breaks down the core concepts without heavy jargon.

We cover:
- What machine learning actually is
- Different types of algorithms
- Real-world applications
- Getting started with your first project
- Recommended learning resources`,
		ViewCount: 980,
	},
	{
		Title: "Urban Gardening: Growing Food in Small Spaces",
		Body: `You do not need a large backyard to grow your own food. Urban gardening techniques let you cultivate fresh produce even in apartments and small homes.

This guide covers:
- Container gardening basics
- Best plants for small spaces
- Vertical gardening techniques
- Indoor growing solutions
- Pest management in confined spaces`,
		ViewCount: 670,
	},
	{
		Title: "Web Development Trends Shaping 2024",
		Body: `The web development landscape keeps evolving quickly. Stay ahead by understanding the technologies and approaches that are gaining traction this year.

Key trends include:
- Serverless architecture adoption
- Static generation with dynamic islands
- Progressive Web Apps
- AI-assisted development tools`,
		ViewCount: 1320,
	},
	{
		Title: "Mindfulness and Mental Health in the Digital Age",
		Body: `In an always-connected world, mental wellbeing takes intentional practice. Explore mindfulness techniques and digital wellness strategies that can help you find balance.

Topics covered:
- Digital detox strategies
- Meditation for beginners
- Managing information overload
- Building healthy tech habits
- Setting boundaries with devices`,
		ViewCount: 540,
	},
	{
		Title: "Renewable Energy Solutions for Homeowners",
		Body: `Switching to renewable energy is increasingly accessible for homeowners. This guide looks at the practical options available today, from solar panels to geothermal systems.

We discuss:
- Solar installation considerations
- Wind energy for residential use
- Geothermal heating and cooling
- Government incentives and rebates
- Calculating return on investment`,
		ViewCount: 830,
	},
}
