package seed

// Credential pools for generated candidates. Labels mirror the anonymized
// attestations real issuers mint: no identity, just capability markers.

var skillLabels = []string{
	"Python Mastery", "JavaScript Expert", "Rust Programming", "Go Development",
	"Machine Learning", "Deep Learning", "Data Science", "Cloud Architecture",
	"Kubernetes", "Docker", "DevOps", "CI/CD", "System Design",
	"Frontend Development", "Backend Development", "Full Stack",
	"Database Design", "SQL Optimization", "PostgreSQL", "MongoDB",
	"API Design", "Microservices", "GraphQL", "REST APIs",
	"Security Engineering", "Cryptography", "Technical Writing", "Code Review",
}

var characterLabels = []string{
	"Leadership", "Team Player", "Mentor", "Problem Solver",
	"Creative Thinker", "Analytical Mind", "Strategic Vision",
	"Adaptability", "Resilience", "Emotional Intelligence",
	"Communication Skills", "Initiative", "Accountability",
	"Integrity", "Collaboration", "Critical Thinking", "Innovation",
	"Continuous Learner",
}

var loyaltyLabels = []string{
	"5 Year Tenure", "10 Year Tenure", "Long-term Commitment",
	"Company Advocate", "Culture Champion", "Retention Award",
	"Loyalty Recognition", "Veteran Status", "Senior Member",
	"Institutional Knowledge",
}

var certificationLabels = []string{
	"AWS Certified Solutions Architect", "Google Cloud Professional",
	"Microsoft Azure Expert", "Certified Kubernetes Administrator",
	"CISSP", "PMP", "Scrum Master Certification",
	"Machine Learning Specialization", "Security+",
	"Docker Certified Associate", "Terraform Associate",
}

var projectLabels = []string{
	"Led $10M Project", "Startup Founder", "Open Source Contributor",
	"Product Launch Success", "Innovation Award Winner",
	"Patent Holder", "Published Researcher", "Conference Speaker",
	"Hackathon Winner", "Technical Mentor Program",
}

var issuers = []string{
	"Tech Certification Board", "Global Skills Authority", "Industry Consortium",
	"Professional Standards Committee", "Corporate HR Department",
	"Independent Verifier", "Peer Review Board", "Academic Institution",
	"Professional Association",
}
